package protocol

import (
	"encoding/json"
	"testing"
)

func TestRequestMarshal(t *testing.T) {
	req := Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  MethodPlanRun,
		Params:  json.RawMessage(`{"path":"basket.plan.yaml"}`),
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Request
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Method != MethodPlanRun {
		t.Errorf("Method = %q, want %q", decoded.Method, MethodPlanRun)
	}
}

func TestResponseError(t *testing.T) {
	resp := NewErrorResponse(2, CodeMethodNotFound, "method not found", nil)

	if resp.Error == nil {
		t.Fatal("Error should not be nil")
	}
	if resp.Error.Code != CodeMethodNotFound {
		t.Errorf("Code = %d, want %d", resp.Error.Code, CodeMethodNotFound)
	}
	if resp.Error.Error() != "method not found" {
		t.Errorf("Message = %q", resp.Error.Message)
	}
	if resp.Result != nil {
		t.Errorf("Result = %v, want nil", resp.Result)
	}
}

func TestRunParamsEmbedPlanParams(t *testing.T) {
	raw := `{"plan":"kind: CheckPlan","params":{"count":"3"},"subject":["a"],"mode":"raise"}`

	var p RunParams
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Plan != "kind: CheckPlan" || p.Params["count"] != "3" {
		t.Errorf("PlanParams = %+v", p.PlanParams)
	}
	if p.Mode != "raise" {
		t.Errorf("Mode = %q", p.Mode)
	}
	if items, ok := p.Subject.([]any); !ok || len(items) != 1 {
		t.Errorf("Subject = %#v", p.Subject)
	}
}

func TestMethodConstants(t *testing.T) {
	methods := []string{
		MethodPlanValidate, MethodPlanRun,
		MethodCodesList, MethodChecksList,
		MethodHistory,
	}

	seen := make(map[string]bool)
	for _, m := range methods {
		if m == "" {
			t.Error("empty method constant")
		}
		if seen[m] {
			t.Errorf("duplicate method: %s", m)
		}
		seen[m] = true
	}
}

func TestErrorResponseWithData(t *testing.T) {
	resp := NewErrorResponse(1, CodeSubjectInvalid, "bad subject", map[string]string{"kind": "collection"})

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Response
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Error.Code != CodeSubjectInvalid {
		t.Errorf("Code = %d", decoded.Error.Code)
	}
	if decoded.ID != float64(1) {
		t.Errorf("ID = %v", decoded.ID)
	}
}
