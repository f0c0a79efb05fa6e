package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"desc lowercase returns DESC", "desc", "DESC"},
		{"invalid value returns DESC", "sideways", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE invoices;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "created_at"},
		{"whitelisted field returns field", "amount", "amount"},
		{"unknown field returns default", "secret_column", "created_at"},
		{"subquery returns default", "(SELECT count(*) FROM invoice_sequences)", "created_at"},
		{"quoted injection returns default", "amount'--", "created_at"},
		{"field with trailing sql returns default", "amount; DROP TABLE invoices", "created_at"},
		{"whitespace around field returns field", "  amount  ", "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, InvoiceSortFields, "created_at"))
		})
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	for name, fields := range map[string]map[string]bool{
		"InvoiceSortFields": InvoiceSortFields,
		"ClientSortFields":  ClientSortFields,
		"ProjectSortFields": ProjectSortFields,
	} {
		assert.True(t, fields["id"], "%s should allow id", name)
		assert.True(t, fields["created_at"], "%s should allow created_at", name)
		assert.True(t, fields["updated_at"], "%s should allow updated_at", name)
	}
}
