package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotSchedule_DefaultDayHasTwentySlots(t *testing.T) {
	s, err := NewSlotSchedule("08:00", "18:00", 30)
	require.NoError(t, err)

	slots := s.Slots()
	assert.Len(t, slots, 20)
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "17:30", slots[len(slots)-1])
}

func TestSlotSchedule_Contains(t *testing.T) {
	s, err := NewSlotSchedule("08:00", "18:00", 30)
	require.NoError(t, err)

	assert.True(t, s.Contains("08:00"))
	assert.True(t, s.Contains("10:30"))
	assert.False(t, s.Contains("10:15"), "не на границе шага")
	assert.False(t, s.Contains("18:00"), "закрытие не входит")
	assert.False(t, s.Contains("07:30"))
	assert.False(t, s.Contains("10am"))
}

func TestSlotSchedule_FreeSkipsEveryTakenList(t *testing.T) {
	s, err := NewSlotSchedule("09:00", "11:00", 30)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:30"}, s.Free([]string{"09:00", "10:30"}, []string{"10:00"}))
	assert.Empty(t, s.Free(s.Slots()))
}

func TestNewSlotSchedule_RejectsBadConfig(t *testing.T) {
	_, err := NewSlotSchedule("18:00", "08:00", 30)
	assert.Error(t, err)
	_, err = NewSlotSchedule("08:00", "18:00", 0)
	assert.Error(t, err)
	_, err = NewSlotSchedule("8am", "18:00", 30)
	assert.Error(t, err)
}

func TestSlotSchedule_CanonicalPadsHour(t *testing.T) {
	s, err := NewSlotSchedule("08:00", "18:00", 30)
	require.NoError(t, err)

	for raw, want := range map[string]string{"8:00": "08:00", "08:00": "08:00", " 9:30 ": "09:30", "17:30": "17:30"} {
		got, ok := s.Canonical(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	for _, raw := range []string{"8:15", "7:30", "18:00", "", "8"} {
		_, ok := s.Canonical(raw)
		assert.False(t, ok, raw)
	}
}
