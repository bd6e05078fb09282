package policy

import "log/slog"

// Channel identifies one host-runtime event channel that the engine may
// consume. Channels are subscribed only while a rule for their governing
// class exists, so an idle category costs nothing on the host's hot path.
type Channel string

const (
	// ChannelEquip delivers item equip attempts.
	ChannelEquip Channel = "equip"
	// ChannelPlace delivers deployable placement attempts.
	ChannelPlace Channel = "place"
	// ChannelWear delivers clothing wear attempts.
	ChannelWear Channel = "wear"
	// ChannelReload delivers ammunition reload attempts.
	ChannelReload Channel = "reload"
)

// RequiredChannels returns the event channels governed by a class.
// Items govern two channels because deployables reuse the item rules.
func RequiredChannels(class ResourceClass) []Channel {
	switch class {
	case ClassItem:
		return []Channel{ChannelEquip, ChannelPlace}
	case ClassClothing:
		return []Channel{ChannelWear}
	case ClassAmmo:
		return []Channel{ChannelReload}
	default:
		return nil
	}
}

// ChannelRegistrar is the host runtime's event registration capability.
// The gate drives it with subscribe/unsubscribe calls; the host owns the
// actual event delivery.
type ChannelRegistrar interface {
	Subscribe(ch Channel)
	Unsubscribe(ch Channel)
}

// Gate decides which event channels the engine consumes. It recomputes the
// desired channel set from the index and diffs it against what is currently
// subscribed, issuing only the changes.
type Gate struct {
	registrar  ChannelRegistrar
	subscribed map[Channel]bool
	logger     *slog.Logger
}

// NewGate creates a Gate with no channels subscribed.
func NewGate(registrar ChannelRegistrar, logger *slog.Logger) *Gate {
	return &Gate{
		registrar:  registrar,
		subscribed: make(map[Channel]bool, 4),
		logger:     logger,
	}
}

// Apply recomputes the desired channel set for the given index and brings
// the registrar in line with it. Called at process start, after every store
// mutation, and on configuration reload.
func (g *Gate) Apply(ix *Index) {
	desired := make(map[Channel]bool, 4)
	for _, class := range Classes {
		if !ix.ClassActive(class) {
			continue
		}
		for _, ch := range RequiredChannels(class) {
			desired[ch] = true
		}
	}

	for ch := range desired {
		if !g.subscribed[ch] {
			g.registrar.Subscribe(ch)
			g.subscribed[ch] = true
			g.logger.Debug("channel subscribed", "channel", string(ch))
		}
	}
	for ch := range g.subscribed {
		if g.subscribed[ch] && !desired[ch] {
			g.registrar.Unsubscribe(ch)
			delete(g.subscribed, ch)
			g.logger.Debug("channel unsubscribed", "channel", string(ch))
		}
	}
}

// Subscribed reports whether the gate currently holds a subscription for ch.
func (g *Gate) Subscribed(ch Channel) bool {
	return g.subscribed[ch]
}
