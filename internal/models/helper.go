package models

// AllModels lists the persisted models in migration order
func AllModels() []interface{} {
	return []interface{}{
		&Teacher{},
		&Question{},
		&Evaluation{},
	}
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences p, returning "" for nil
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
