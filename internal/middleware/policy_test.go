package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAccessResource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		subjectRole string
		subjectID   string
		ownerID     string
		want        bool
	}{
		{"admin accesses any resource", "admin", "aaa", "bbb", true},
		{"owner accesses own resource", "customer", "aaa", "aaa", true},
		{"customer refused on foreign resource", "customer", "aaa", "bbb", false},
		{"empty subject refused even on empty owner", "customer", "", "", false},
		{"unknown role treated as non-admin", "superuser", "aaa", "bbb", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CanAccessResource(tt.subjectRole, tt.subjectID, tt.ownerID))
		})
	}
}
