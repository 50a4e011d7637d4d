package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to shipped", StatusPending, StatusShipped, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to delivered skips shipping", StatusPending, StatusDelivered, false},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"shipped to cancelled", StatusShipped, StatusCancelled, true},
		{"shipped back to pending", StatusShipped, StatusPending, false},
		{"delivered is terminal", StatusDelivered, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"same status is a no-op", StatusShipped, StatusShipped, true},
		{"cancelled to cancelled is a no-op", StatusCancelled, StatusCancelled, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestShouldRestock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"cancel from pending restocks", StatusPending, StatusCancelled, true},
		{"cancel from shipped restocks", StatusShipped, StatusCancelled, true},
		{"second cancel leaves stock unchanged", StatusCancelled, StatusCancelled, false},
		{"shipping never restocks", StatusPending, StatusShipped, false},
		{"delivery never restocks", StatusShipped, StatusDelivered, false},
		{"pending no-op never restocks", StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ShouldRestock(tt.from, tt.to))
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []string{StatusPending, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, IsValidStatus(s), s)
	}
	assert.False(t, IsValidStatus("pending")) // sensible à la casse
	assert.False(t, IsValidStatus("Refunded"))
	assert.False(t, IsValidStatus(""))
}

func TestAddressIsComplete(t *testing.T) {
	t.Parallel()

	full := Address{Street: "12 Zamzama Blvd", City: "Karachi", State: "Sindh", ZipCode: "75600", Country: "Pakistan"}
	assert.True(t, full.IsComplete())

	missingZip := full
	missingZip.ZipCode = ""
	assert.False(t, missingZip.IsComplete())

	assert.False(t, Address{}.IsComplete())
}
