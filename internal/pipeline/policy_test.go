package pipeline

import "testing"

func TestPolicyResolve(t *testing.T) {
	p := NewPolicy("000_About", 3440, 1440)

	wide := p.Resolve("000_About")
	if wide.Fix != FixWidth || wide.Target != 3440 {
		t.Errorf("wide folder rule: got fix=%s target=%d", wide.Fix, wide.Target)
	}

	regular := p.Resolve("010_Landscapes")
	if regular.Fix != FixHeight || regular.Target != 1440 {
		t.Errorf("regular folder rule: got fix=%s target=%d", regular.Fix, regular.Target)
	}
}

func TestRuleApply(t *testing.T) {
	tests := []struct {
		name         string
		rule         Rule
		srcW, srcH   int
		wantW, wantH int
	}{
		{
			name: "landscape fixed height",
			rule: Rule{Fix: FixHeight, Target: 1440},
			srcW: 4000, srcH: 3000,
			wantW: 1920, wantH: 1440,
		},
		{
			name: "wide panorama fixed width",
			rule: Rule{Fix: FixWidth, Target: 3440},
			srcW: 2000, srcH: 1000,
			wantW: 3440, wantH: 1720,
		},
		{
			name: "fixed side lands exactly on target",
			rule: Rule{Fix: FixHeight, Target: 1440},
			srcW: 3000, srcH: 2000,
			wantW: 2160, wantH: 1440,
		},
		{
			name: "derived side rounds",
			rule: Rule{Fix: FixHeight, Target: 100},
			srcW: 1001, srcH: 1000,
			wantW: 100, wantH: 100,
		},
		{
			name: "portrait fixed height shrinks width",
			rule: Rule{Fix: FixHeight, Target: 1440},
			srcW: 3000, srcH: 4000,
			wantW: 1080, wantH: 1440,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.rule.Apply(tt.srcW, tt.srcH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Apply(%d, %d) = %dx%d, want %dx%d",
					tt.srcW, tt.srcH, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPolicyFallbackWhenNoRuleMatches(t *testing.T) {
	p := Policy{fallback: Rule{Fix: FixHeight, Target: 720}}
	r := p.Resolve("anything")
	if r.Fix != FixHeight || r.Target != 720 {
		t.Errorf("fallback rule: got fix=%s target=%d", r.Fix, r.Target)
	}
}
