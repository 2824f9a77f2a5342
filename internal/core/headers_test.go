package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestScanAuthSignals(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[AuthMechanism]string
	}{
		{
			name: "no authentication results header",
			raw:  "Received: from x\nReceived: from y",
			want: map[AuthMechanism]string{},
		},
		{
			name: "single block with all three mechanisms",
			raw:  "Authentication-Results: mx.example.com; spf=pass; dkim=pass; dmarc=pass",
			want: map[AuthMechanism]string{
				MechanismSPF:   "pass",
				MechanismDKIM:  "pass",
				MechanismDMARC: "pass",
			},
		},
		{
			name: "mixed results",
			raw:  "Authentication-Results: mx.example.com; spf=softfail; dkim=fail; dmarc=fail",
			want: map[AuthMechanism]string{
				MechanismSPF:   "softfail",
				MechanismDKIM:  "fail",
				MechanismDMARC: "fail",
			},
		},
		{
			name: "case insensitive header and tokens",
			raw:  "AUTHENTICATION-RESULTS: mx; SPF=Pass; Dkim=PASS; dMaRc=pAsS",
			want: map[AuthMechanism]string{
				MechanismSPF:   "pass",
				MechanismDKIM:  "pass",
				MechanismDMARC: "pass",
			},
		},
		{
			name: "folded header across continuation lines",
			raw: "Authentication-Results: mx.example.com;\n" +
				" spf=pass smtp.mailfrom=bounce@example.com;\n" +
				"\tdkim=pass header.d=example.com;\n" +
				" dmarc=pass header.from=example.com\n" +
				"Subject: hello",
			want: map[AuthMechanism]string{
				MechanismSPF:   "pass",
				MechanismDKIM:  "pass",
				MechanismDMARC: "pass",
			},
		},
		{
			name: "block ends at next unfolded line",
			raw: "Authentication-Results: mx; spf=pass\n" +
				"X-Other: dkim=pass",
			want: map[AuthMechanism]string{
				MechanismSPF: "pass",
			},
		},
		{
			name: "single blob without line structure",
			raw:  "Received: from x Authentication-Results: mx; spf=pass; dkim=pass; dmarc=pass Subject: hi",
			want: map[AuthMechanism]string{
				MechanismSPF:   "pass",
				MechanismDKIM:  "pass",
				MechanismDMARC: "pass",
			},
		},
		{
			name: "result token stops at comment paren",
			raw:  "Authentication-Results: mx; spf=pass(sender ip authorized); dkim=pass",
			want: map[AuthMechanism]string{
				MechanismSPF:  "pass",
				MechanismDKIM: "pass",
			},
		},
		{
			name: "authentication results original variant",
			raw:  "Authentication-Results-Original: mx; spf=pass",
			want: map[AuthMechanism]string{
				MechanismSPF: "pass",
			},
		},
		{
			name: "arc header is a different header name",
			raw:  "ARC-Authentication-Results: i=1; mx; spf=pass; dkim=pass; dmarc=pass",
			want: map[AuthMechanism]string{},
		},
		{
			name: "tokens outside any block are ignored",
			raw:  "X-Notes: spf=pass dkim=pass dmarc=pass",
			want: map[AuthMechanism]string{},
		},
		{
			name: "last occurrence wins across blocks",
			raw: "Authentication-Results: relay1; spf=fail; dkim=pass; dmarc=pass\n" +
				"Received: from relay2\n" +
				"Authentication-Results: relay2; spf=pass; dkim=pass; dmarc=pass",
			want: map[AuthMechanism]string{
				MechanismSPF:   "pass",
				MechanismDKIM:  "pass",
				MechanismDMARC: "pass",
			},
		},
		{
			name: "last occurrence wins within one block",
			raw:  "Authentication-Results: mx; spf=pass; spf=softfail",
			want: map[AuthMechanism]string{
				MechanismSPF: "softfail",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals, err := ScanAuthSignals(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := ResolveSignals(signals)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("unexpected results: got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestScanAuthSignalsInvalidEncoding(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "invalid utf8", raw: "Authentication-Results: mx; spf=pass\xff\xfe"},
		{name: "nul byte", raw: "Authentication-Results: mx; spf=pass\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScanAuthSignals(tt.raw)
			if !errors.Is(err, ErrInvalidHeaderEncoding) {
				t.Fatalf("expected ErrInvalidHeaderEncoding, got %v", err)
			}
		})
	}
}

func TestScanAuthSignalsPositions(t *testing.T) {
	raw := "Authentication-Results: mx; spf=fail\nAuthentication-Results: mx; spf=pass"

	signals, err := ScanAuthSignals(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(signals))
	}
	if signals[0].Position >= signals[1].Position {
		t.Errorf("expected positions in document order: %d, %d", signals[0].Position, signals[1].Position)
	}
	if signals[0].Result != "fail" || signals[1].Result != "pass" {
		t.Errorf("unexpected results: %+v", signals)
	}
}

func TestScanAuthSignalsIdempotent(t *testing.T) {
	raw := "Authentication-Results: relay1; spf=fail; dkim=pass\n" +
		"Authentication-Results: relay2; spf=pass; dmarc=none"

	first, err := ScanAuthSignals(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ScanAuthSignals(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("scans differ:\nfirst=%+v\nsecond=%+v", first, second)
	}
	if !reflect.DeepEqual(ResolveSignals(first), ResolveSignals(second)) {
		t.Fatal("resolved mappings differ between identical scans")
	}
}
