package journal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledEvents(t *testing.T) {
	req := require.New(t)

	test := func(dis DisabledEvents) func(*testing.T) {
		return func(t *testing.T) {
			registry := NewEventTypeRegistry(dis)

			reg1 := registry.RegisterEventType("system1", "disabled1")
			reg2 := registry.RegisterEventType("system1", "disabled2")

			req.False(reg1.Enabled())
			req.False(reg2.Enabled())
			req.True(reg1.safe)
			req.True(reg2.safe)

			reg3 := registry.RegisterEventType("system3", "enabled3")
			req.True(reg3.Enabled())
			req.True(reg3.safe)
		}
	}

	t.Run("direct", test(DisabledEvents{
		EventType{System: "system1", Event: "disabled1"},
		EventType{System: "system1", Event: "disabled2"},
	}))

	dis, err := ParseDisabledEvents("system1:disabled1,system1:disabled2")
	req.NoError(err)

	t.Run("parsed", test(dis))

	dis, err = ParseDisabledEvents("  system1:disabled1 , system1:disabled2  ")
	req.NoError(err)

	t.Run("parsed_spaces", test(dis))
}

func TestParseDisableEvents(t *testing.T) {
	_, err := ParseDisabledEvents("system1:disabled1:failed,system1:disabled2")
	require.Error(t, err)

	dis, err := ParseDisabledEvents("")
	require.NoError(t, err)
	require.Empty(t, dis)
}

func TestUnregisteredTypeIsDisabled(t *testing.T) {
	et := EventType{System: "proving", Event: "adhoc"}
	require.False(t, et.Enabled())
	require.Equal(t, "proving:adhoc", et.String())
}

func TestMaybeRecordEventNil(t *testing.T) {
	called := false
	MaybeRecordEvent(nil, EventType{}, func() interface{} { called = true; return nil })
	MaybeRecordEvent(NilJournal(), EventType{}, func() interface{} { called = true; return nil })
	require.False(t, called)
}
