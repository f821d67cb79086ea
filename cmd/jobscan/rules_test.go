package main

import (
	"encoding/json"
	"strings"
	"testing"

	"mercator-hq/jobscan/pkg/rules"
)

func TestRulesList(t *testing.T) {
	rulesFlags.explain = ""
	rulesFlags.output = "text"

	cmd, out := testCommand("")
	if err := runRules(cmd, nil); err != nil {
		t.Fatalf("runRules() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(rules.DefaultCatalog())+1 {
		t.Fatalf("got %d lines, want header plus %d rules:\n%s", len(lines), len(rules.DefaultCatalog()), out.String())
	}
	for _, key := range rules.DefaultCatalog().Keys() {
		if !strings.Contains(out.String(), key) {
			t.Errorf("output missing rule %q", key)
		}
	}
}

func TestRulesListJSON(t *testing.T) {
	rulesFlags.explain = ""
	rulesFlags.output = "json"
	t.Cleanup(func() { rulesFlags.output = "text" })

	cmd, out := testCommand("")
	if err := runRules(cmd, nil); err != nil {
		t.Fatalf("runRules() failed: %v", err)
	}

	var infos []ruleInfo
	if err := json.Unmarshal(out.Bytes(), &infos); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(infos) != len(rules.DefaultCatalog()) {
		t.Fatalf("got %d rules", len(infos))
	}
	if infos[0].Key != rules.KeyRegistrationFee || infos[0].Score != 30 || infos[0].Pattern == "" {
		t.Errorf("first rule = %+v", infos[0])
	}
}

func TestRulesExplain(t *testing.T) {
	rulesFlags.explain = "Earn $500 per day. No interview needed."
	rulesFlags.output = "json"
	t.Cleanup(func() {
		rulesFlags.explain = ""
		rulesFlags.output = "text"
	})

	cmd, out := testCommand("")
	if err := runRules(cmd, nil); err != nil {
		t.Fatalf("runRules() failed: %v", err)
	}

	var exp explanation
	if err := json.Unmarshal(out.Bytes(), &exp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	matched := map[string]bool{}
	for _, r := range exp.Rules {
		if r.Outcome == rules.Matched.String() {
			matched[r.Key] = true
		}
	}
	if !matched[rules.KeyUnrealSalary] || !matched[rules.KeyNoInterview] || len(matched) != 2 {
		t.Errorf("matched = %v, want unreal_salary and no_interview", matched)
	}
	if exp.Result.RiskScore != 45 || exp.Result.RiskLevel != rules.LevelMedium {
		t.Errorf("result = %+v, want 45/MEDIUM", exp.Result)
	}
}

func TestRulesExplainText(t *testing.T) {
	rulesFlags.explain = "registration fee"
	rulesFlags.output = "text"
	t.Cleanup(func() { rulesFlags.explain = "" })

	cmd, out := testCommand("")
	if err := runRules(cmd, nil); err != nil {
		t.Fatalf("runRules() failed: %v", err)
	}
	if !strings.Contains(out.String(), "+30") {
		t.Errorf("output missing matched weight:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Risk score: 30 (LOW)") {
		t.Errorf("output missing verdict:\n%s", out.String())
	}
}
