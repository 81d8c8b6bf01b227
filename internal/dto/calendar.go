package dto

import (
	"time"

	"github.com/philippe-delaval/Lesot-bon/internal/model"
)

// CalendarEvent is the FullCalendar-shaped event returned by the calendar
// feed.
type CalendarEvent struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Start           time.Time          `json:"start"`
	End             time.Time          `json:"end"`
	BackgroundColor string             `json:"backgroundColor"`
	ExtendedProps   CalendarEventProps `json:"extendedProps"`
}

// CalendarEventProps carries the planning details FullCalendar does not
// render itself.
type CalendarEventProps struct {
	Statut      string `json:"statut"`
	Type        string `json:"type"`
	Employe     string `json:"employe"`
	Lieu        string `json:"lieu,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewCalendarEvent maps a planning to its calendar representation. The title
// is "<employe initials> - <type>".
func NewCalendarEvent(p *model.Planning) CalendarEvent {
	title := p.TypeAffectation
	employe := ""
	if p.Employe != nil {
		employe = p.Employe.NomComplet()
		title = p.Employe.Initiales() + " - " + p.TypeAffectation
	}
	return CalendarEvent{
		ID:              p.PlanningID,
		Title:           title,
		Start:           p.DateDebut,
		End:             p.DateFin,
		BackgroundColor: p.TypeColor(),
		ExtendedProps: CalendarEventProps{
			Statut:      p.Statut,
			Type:        p.TypeAffectation,
			Employe:     employe,
			Lieu:        p.LieuIntervention,
			Description: p.DescriptionTache,
		},
	}
}
