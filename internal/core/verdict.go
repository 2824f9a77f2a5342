package core

// ComputeVerdict reduces a mechanism→result mapping to an overall verdict.
// The rules apply in order:
//  1. none of spf/dkim/dmarc were found → unknown
//  2. all three are present and each equals "pass" → pass
//  3. anything else → fail
//
// Partial evidence is a failure, not missing data: a ticket carrying only
// spf=pass fails. Only the total absence of all three signals is unknown.
// The function is pure and safe for concurrent use.
func ComputeVerdict(results map[AuthMechanism]string) Verdict {
	verdict := Verdict{
		SPF:   mechanismResult(results, MechanismSPF),
		DKIM:  mechanismResult(results, MechanismDKIM),
		DMARC: mechanismResult(results, MechanismDMARC),
	}

	switch {
	case verdict.SPF == nil && verdict.DKIM == nil && verdict.DMARC == nil:
		verdict.Overall = VerdictUnknown
	case allPass(verdict.SPF, verdict.DKIM, verdict.DMARC):
		verdict.Overall = VerdictPass
	default:
		verdict.Overall = VerdictFail
	}
	return verdict
}

func mechanismResult(results map[AuthMechanism]string, mechanism AuthMechanism) *string {
	result, ok := results[mechanism]
	if !ok || result == "" {
		return nil
	}
	return &result
}

func allPass(results ...*string) bool {
	for _, result := range results {
		if result == nil || *result != VerdictPass {
			return false
		}
	}
	return true
}
