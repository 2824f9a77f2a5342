package core

import (
	"testing"
)

func TestComputeVerdict(t *testing.T) {
	tests := []struct {
		name    string
		results map[AuthMechanism]string
		want    string
	}{
		{
			name:    "no signals found",
			results: map[AuthMechanism]string{},
			want:    VerdictUnknown,
		},
		{
			name: "all three pass",
			results: map[AuthMechanism]string{
				MechanismSPF:   "pass",
				MechanismDKIM:  "pass",
				MechanismDMARC: "pass",
			},
			want: VerdictPass,
		},
		{
			name: "only spf present and passing",
			results: map[AuthMechanism]string{
				MechanismSPF: "pass",
			},
			want: VerdictFail,
		},
		{
			name: "two present and passing",
			results: map[AuthMechanism]string{
				MechanismSPF:  "pass",
				MechanismDKIM: "pass",
			},
			want: VerdictFail,
		},
		{
			name: "softfail alongside passes",
			results: map[AuthMechanism]string{
				MechanismSPF:   "softfail",
				MechanismDKIM:  "pass",
				MechanismDMARC: "pass",
			},
			want: VerdictFail,
		},
		{
			name: "all three failing",
			results: map[AuthMechanism]string{
				MechanismSPF:   "softfail",
				MechanismDKIM:  "fail",
				MechanismDMARC: "fail",
			},
			want: VerdictFail,
		},
		{
			name: "vendor specific result",
			results: map[AuthMechanism]string{
				MechanismSPF:   "permerror",
				MechanismDKIM:  "pass",
				MechanismDMARC: "pass",
			},
			want: VerdictFail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := ComputeVerdict(tt.results)
			if verdict.Overall != tt.want {
				t.Fatalf("unexpected overall: got=%q want=%q", verdict.Overall, tt.want)
			}
		})
	}
}

func TestComputeVerdictRecordsContributingSignals(t *testing.T) {
	verdict := ComputeVerdict(map[AuthMechanism]string{
		MechanismSPF:  "softfail",
		MechanismDKIM: "pass",
	})

	if verdict.SPF == nil || *verdict.SPF != "softfail" {
		t.Errorf("unexpected spf: %v", verdict.SPF)
	}
	if verdict.DKIM == nil || *verdict.DKIM != "pass" {
		t.Errorf("unexpected dkim: %v", verdict.DKIM)
	}
	if verdict.DMARC != nil {
		t.Errorf("expected absent dmarc, got %q", *verdict.DMARC)
	}
	if verdict.Overall != VerdictFail {
		t.Errorf("unexpected overall: %q", verdict.Overall)
	}
}

// End-to-end classifier scenarios over raw header text
func TestClassifierScenarios(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "all pass single block",
			raw:  "Authentication-Results: mx.example.com; spf=pass; dkim=pass; dmarc=pass",
			want: VerdictPass,
		},
		{
			name: "all failing single block",
			raw:  "Authentication-Results: mx.example.com; spf=softfail; dkim=fail; dmarc=fail",
			want: VerdictFail,
		},
		{
			name: "no authentication results",
			raw:  "Received: from x\nReceived: from y",
			want: VerdictUnknown,
		},
		{
			name: "conflicting blocks resolved by last occurrence",
			raw: "Authentication-Results: relay1; spf=fail; dkim=pass; dmarc=pass\n" +
				"Authentication-Results: relay2; spf=pass; dkim=pass; dmarc=pass",
			want: VerdictPass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals, err := ScanAuthSignals(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			verdict := ComputeVerdict(ResolveSignals(signals))
			if verdict.Overall != tt.want {
				t.Fatalf("unexpected overall: got=%q want=%q", verdict.Overall, tt.want)
			}
		})
	}
}
