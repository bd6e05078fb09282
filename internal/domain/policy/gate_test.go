package policy

import (
	"io"
	"log/slog"
	"reflect"
	"testing"
)

// fakeRegistrar records subscribe/unsubscribe calls in order.
type fakeRegistrar struct {
	calls []string
}

func (r *fakeRegistrar) Subscribe(ch Channel)   { r.calls = append(r.calls, "+"+string(ch)) }
func (r *fakeRegistrar) Unsubscribe(ch Channel) { r.calls = append(r.calls, "-"+string(ch)) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequiredChannels(t *testing.T) {
	cases := []struct {
		class ResourceClass
		want  []Channel
	}{
		{ClassItem, []Channel{ChannelEquip, ChannelPlace}},
		{ClassClothing, []Channel{ChannelWear}},
		{ClassAmmo, []Channel{ChannelReload}},
		{ResourceClass(99), nil},
	}
	for _, tc := range cases {
		if got := RequiredChannels(tc.class); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("RequiredChannels(%v) = %v, want %v", tc.class, got, tc.want)
		}
	}
}

func TestGate_SubscribesOnlyActiveClasses(t *testing.T) {
	s := NewStore()
	s.Add(ClassAmmo, KindPermanent, "explosive.ammo")

	reg := &fakeRegistrar{}
	g := NewGate(reg, discardLogger())
	g.Apply(BuildIndex(s))

	if !g.Subscribed(ChannelReload) {
		t.Error("reload channel not subscribed, want subscribed")
	}
	for _, ch := range []Channel{ChannelEquip, ChannelPlace, ChannelWear} {
		if g.Subscribed(ch) {
			t.Errorf("channel %s subscribed with no rules, want unsubscribed", ch)
		}
	}
}

func TestGate_ItemRulesGovernBothItemChannels(t *testing.T) {
	s := NewStore()
	s.Add(ClassItem, KindTimed, "Auto Turret")

	g := NewGate(&fakeRegistrar{}, discardLogger())
	g.Apply(BuildIndex(s))

	if !g.Subscribed(ChannelEquip) || !g.Subscribed(ChannelPlace) {
		t.Error("item rule must subscribe both equip and place channels")
	}
}

func TestGate_UnsubscribesWhenLastRuleRemoved(t *testing.T) {
	s := NewStore()
	s.Add(ClassClothing, KindTimed, "Hazmat Suit")

	reg := &fakeRegistrar{}
	g := NewGate(reg, discardLogger())
	g.Apply(BuildIndex(s))
	if !g.Subscribed(ChannelWear) {
		t.Fatal("wear channel not subscribed")
	}

	s.Remove(ClassClothing, KindTimed, "Hazmat Suit")
	g.Apply(BuildIndex(s))
	if g.Subscribed(ChannelWear) {
		t.Error("wear channel still subscribed after last rule removed")
	}

	want := []string{"+wear", "-wear"}
	if !reflect.DeepEqual(reg.calls, want) {
		t.Errorf("registrar calls = %v, want %v", reg.calls, want)
	}
}

func TestGate_ApplyIsIdempotent(t *testing.T) {
	s := NewStore()
	s.Add(ClassItem, KindPermanent, "C4")

	reg := &fakeRegistrar{}
	g := NewGate(reg, discardLogger())
	ix := BuildIndex(s)
	g.Apply(ix)
	n := len(reg.calls)
	g.Apply(ix)

	if len(reg.calls) != n {
		t.Errorf("second Apply issued %d extra calls, want 0", len(reg.calls)-n)
	}
}
