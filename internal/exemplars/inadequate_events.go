package exemplars

import (
	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// InadequateEvents rotates the treasury admin without emitting an event, so
// monitoring never sees a stolen key being used
type InadequateEvents struct{ base }

func NewInadequateEvents() exemplar.Exemplar {
	return &InadequateEvents{base{
		kind: models.InadequateEvents,
		file: "inadequate_events.go",
		info: exemplar.Info{
			Name:           "Inadequate Events",
			Description:    "Critical state changes emit no events, leaving off-chain monitoring blind.",
			ExploitExample: "The admin key is rotated without emitting an event, so monitoring never notices that control of the program changed hands.",
			Platforms:      defaultPlatforms,
			Detection: []string{
				"admin or parameter changes with no emitted event",
				"events missing the old and new values",
			},
			Remediation: []string{
				"emit an event for every privileged state change",
				"include actor, old value and new value in each event",
			},
		},
	}}
}

type event struct {
	name, actor, from, to string
}

type treasury struct {
	admin  string
	events []event
}

func (t *treasury) authorize(caller string) error {
	if caller != t.admin {
		return exemplar.Reject("caller %q is not the treasury admin", caller)
	}
	return nil
}

func (e *InadequateEvents) Vulnerable(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	previous := in.Setup.Str("admin")
	t := &treasury{admin: previous}
	caller := in.Setup.Str("caller")
	if err := t.authorize(caller); err != nil {
		return nil, err
	}
	t.admin = in.Setup.Str("new_admin") // vuln:source vuln:sink

	return exemplar.Values{"admin_changed": t.admin != previous, "events": len(t.events)}, nil
}

func (e *InadequateEvents) Secure(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	previous := in.Setup.Str("admin")
	t := &treasury{admin: previous}
	caller := in.Setup.Str("caller")
	if err := t.authorize(caller); err != nil {
		return nil, err
	}
	t.admin = in.Setup.Str("new_admin")
	t.events = append(t.events, event{name: "AdminChanged", actor: caller, from: previous, to: t.admin})

	return exemplar.Values{"admin_changed": t.admin != previous, "events": len(t.events)}, nil
}
