package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/model"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
)

// ExportService renders planning data as Excel workbooks and ICS calendars.
type ExportService struct {
	plannings repository.PlanningRepository
	employes  repository.EmployeRepository
	logger    *zap.Logger
}

func NewExportService(plannings repository.PlanningRepository, employes repository.EmployeRepository, logger *zap.Logger) *ExportService {
	return &ExportService{plannings: plannings, employes: employes, logger: logger}
}

var joursSemaine = []string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche"}

// ExcelSemaine builds a weekly grid workbook: one row per employe, one column
// per day, cells listing the assignments of that day. debut is normalized to
// the Monday of its week.
func (s *ExportService) ExcelSemaine(ctx context.Context, debut time.Time) (*bytes.Buffer, string, error) {
	lundi := debutDeSemaine(debut)
	fin := lundi.AddDate(0, 0, 7)

	plannings, err := s.plannings.ListByPeriode(ctx, lundi, fin, "", "")
	if err != nil {
		return nil, "", err
	}

	// group by employe, then by weekday
	type ligne struct {
		nom   string
		jours [7][]string
	}
	index := map[string]*ligne{}
	var ordre []string
	for i := range plannings {
		p := &plannings[i]
		l, ok := index[p.EmployeID]
		if !ok {
			nom := p.EmployeID
			if p.Employe != nil {
				nom = p.Employe.NomComplet()
			}
			l = &ligne{nom: nom}
			index[p.EmployeID] = l
			ordre = append(ordre, p.EmployeID)
		}
		jour := int(p.DateDebut.Sub(lundi).Hours() / 24)
		if jour < 0 {
			jour = 0
		}
		if jour > 6 {
			jour = 6
		}
		cell := fmt.Sprintf("%s-%s %s (%s)",
			p.DateDebut.Format("15:04"), p.DateFin.Format("15:04"),
			p.TypeAffectation, p.Statut)
		if p.LieuIntervention != "" {
			cell += " @ " + p.LieuIntervention
		}
		l.jours[jour] = append(l.jours[jour], cell)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Planning"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	if err := f.SetCellValue(sheet, "A1", "Employe"); err != nil {
		return nil, "", err
	}
	for j, jour := range joursSemaine {
		col, _ := excelize.ColumnNumberToName(j + 2)
		date := lundi.AddDate(0, 0, j)
		if err := f.SetCellValue(sheet, col+"1", fmt.Sprintf("%s %s", jour, date.Format("02/01"))); err != nil {
			return nil, "", err
		}
	}

	for i, employeID := range ordre {
		l := index[employeID]
		row := i + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), l.nom); err != nil {
			return nil, "", err
		}
		for j := 0; j < 7; j++ {
			if len(l.jours[j]) == 0 {
				continue
			}
			col, _ := excelize.ColumnNumberToName(j + 2)
			value := ""
			for k, entry := range l.jours[j] {
				if k > 0 {
					value += "\n"
				}
				value += entry
			}
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), value); err != nil {
				return nil, "", err
			}
		}
	}

	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "H", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("planning-semaine-%s.xlsx", lundi.Format("2006-01-02"))
	s.logger.Info("planning exported to excel",
		zap.Time("semaine", lundi),
		zap.Int("plannings", len(plannings)))
	return buf, filename, nil
}

// ICSEmploye renders the plannings of one employe over [debut, fin) as an
// ICS calendar feed.
func (s *ExportService) ICSEmploye(ctx context.Context, employeID string, debut, fin time.Time) (string, string, error) {
	employe, err := s.employes.GetByID(ctx, employeID)
	if err != nil {
		return "", "", ErrEmployeNotFound
	}

	plannings, err := s.plannings.ListByPeriode(ctx, debut, fin, employeID, "")
	if err != nil {
		return "", "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Lesot-bon//Planning//FR")
	cal.SetName(fmt.Sprintf("Planning %s", employe.NomComplet()))

	for i := range plannings {
		p := &plannings[i]
		if p.Statut == model.PlanningAnnule {
			continue
		}
		event := cal.AddEvent(p.PlanningID + "@lesot-bon")
		event.SetCreatedTime(p.CreatedAt)
		event.SetDtStampTime(p.UpdatedAt)
		event.SetStartAt(p.DateDebut)
		event.SetEndAt(p.DateFin)
		event.SetSummary(p.TypeAffectation)
		if p.LieuIntervention != "" {
			event.SetLocation(p.LieuIntervention)
		}
		if p.DescriptionTache != "" {
			event.SetDescription(p.DescriptionTache)
		}
	}

	filename := fmt.Sprintf("planning-%s.ics", employe.Matricule)
	return cal.Serialize(), filename, nil
}

// debutDeSemaine returns the Monday 00:00 of the week containing t.
func debutDeSemaine(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -offset)
}
