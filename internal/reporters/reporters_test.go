package reporters

import (
	"testing"

	"go.uber.org/zap"
)

func TestValidateWithoutAllowList(t *testing.T) {
	v := NewValidator(nil, zap.NewNop())

	tests := []struct {
		name     string
		reporter string
		wantErr  bool
	}{
		{name: "plain address", reporter: "alice@example.com", wantErr: false},
		{name: "address with display name", reporter: "Alice <alice@example.com>", wantErr: false},
		{name: "not an address", reporter: "not-an-address", wantErr: true},
		{name: "empty", reporter: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.reporter)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected result: err=%v wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWithAllowList(t *testing.T) {
	v := NewValidator([]string{" Example.ORG ", "example.com"}, zap.NewNop())

	if err := v.Validate("alice@example.com"); err != nil {
		t.Errorf("expected allowed domain to validate: %v", err)
	}
	if err := v.Validate("bob@EXAMPLE.ORG"); err != nil {
		t.Errorf("expected domain match to be case-insensitive: %v", err)
	}
	if err := v.Validate("mallory@evil.test"); err == nil {
		t.Error("expected disallowed domain to be rejected")
	}
}
