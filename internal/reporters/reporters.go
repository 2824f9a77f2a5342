package reporters

import (
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// Validator checks submitted reporter addresses. When configured with an
// allow-list of domains, only reporters from those domains may file tickets.
type Validator struct {
	domains []string
	logger  *zap.Logger
}

// NewValidator creates a new reporter validator
func NewValidator(domains []string, logger *zap.Logger) *Validator {
	// Normalize domains (lowercase)
	normalized := make([]string, len(domains))
	for i, domain := range domains {
		normalized[i] = strings.ToLower(strings.TrimSpace(domain))
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Restricting reporters to allowed domains", zap.Strings("domains", normalized))
	}

	return &Validator{
		domains: normalized,
		logger:  logger,
	}
}

// Validate checks that the reporter is a parseable email address and, when
// an allow-list is configured, that its domain is allowed
func (v *Validator) Validate(reporter string) error {
	addr, err := mail.ParseAddress(reporter)
	if err != nil {
		return fmt.Errorf("reporter is not a valid email address: %w", err)
	}

	parts := strings.Split(addr.Address, "@")
	if len(parts) != 2 || parts[1] == "" {
		return fmt.Errorf("reporter %q has no domain", reporter)
	}
	domain := strings.ToLower(parts[1])

	if len(v.domains) == 0 {
		return nil
	}
	for _, allowed := range v.domains {
		if allowed == domain {
			return nil
		}
	}
	return fmt.Errorf("reporter domain %q is not allowed", domain)
}
