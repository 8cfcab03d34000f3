// Package postgres loads participants and registrations from PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/source"
)

// ErrNoParticipants is returned when a college has no registered students.
var ErrNoParticipants = errors.New("postgres: no participants for college")

type Loader struct {
	pool *pgxpool.Pool
}

func NewLoader(pool *pgxpool.Pool) *Loader {
	return &Loader{pool: pool}
}

const participantColumns = `id, name, gender, college, course, semester, dob, image_ref`

// Participants returns the students of one college in registration order.
func (l *Loader) Participants(ctx context.Context, college string) ([]source.Participant, error) {
	query := `
SELECT ` + participantColumns + `
FROM participants
WHERE college = $1
ORDER BY created_at ASC, id ASC`
	rows, err := l.pool.Query(ctx, query, college)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return scanParticipants(rows)
}

// EventParticipants returns every student registered for eventID.
func (l *Loader) EventParticipants(ctx context.Context, eventID string) ([]source.Participant, error) {
	query := `
SELECT ` + participantColumns + `
FROM participants
WHERE id IN (
	SELECT rp.participant_id
	FROM registration_participants rp
	JOIN registrations r ON r.id = rp.registration_id
	WHERE r.event_id = $1
)
ORDER BY college ASC, name ASC`
	rows, err := l.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event participants: %w", err)
	}
	return scanParticipants(rows)
}

func scanParticipants(rows pgx.Rows) ([]source.Participant, error) {
	defer rows.Close()
	var out []source.Participant
	for rows.Next() {
		var p source.Participant
		var dob *time.Time
		if err := rows.Scan(&p.ID, &p.Name, &p.Gender, &p.College, &p.Course, &p.Semester, &dob, &p.ImageRef); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		if dob != nil {
			p.DOB = *dob
		}
		out = append(out, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate participants: %w", rows.Err())
	}
	return out, nil
}

const registrationQuery = `
SELECT r.id, r.group_name, e.id, e.name, e.is_onstage, e.is_group, rp.participant_id
FROM registrations r
JOIN events e ON e.id = r.event_id
JOIN registration_participants rp ON rp.registration_id = r.id
WHERE %s
ORDER BY r.created_at ASC, r.id ASC, rp.position ASC`

// CollegeRegistrations returns every registration with at least one student
// of college, including all of its participants.
func (l *Loader) CollegeRegistrations(ctx context.Context, college string) ([]source.Registration, error) {
	where := `r.id IN (
	SELECT rp2.registration_id
	FROM registration_participants rp2
	JOIN participants p ON p.id = rp2.participant_id
	WHERE p.college = $1
)`
	rows, err := l.pool.Query(ctx, fmt.Sprintf(registrationQuery, where), college)
	if err != nil {
		return nil, fmt.Errorf("list college registrations: %w", err)
	}
	return scanRegistrations(rows)
}

// EventRegistrations returns the registrations for eventID.
func (l *Loader) EventRegistrations(ctx context.Context, eventID string) ([]source.Registration, error) {
	rows, err := l.pool.Query(ctx, fmt.Sprintf(registrationQuery, `r.event_id = $1`), eventID)
	if err != nil {
		return nil, fmt.Errorf("list event registrations: %w", err)
	}
	return scanRegistrations(rows)
}

// scanRegistrations folds one row per participant into registrations. Rows
// of one registration are adjacent because of the ORDER BY.
func scanRegistrations(rows pgx.Rows) ([]source.Registration, error) {
	defer rows.Close()
	var out []source.Registration
	for rows.Next() {
		var r source.Registration
		var pid string
		if err := rows.Scan(&r.ID, &r.GroupName, &r.Event.ID, &r.Event.Name, &r.Event.Onstage, &r.Event.Group, &pid); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		if n := len(out); n > 0 && out[n-1].ID == r.ID {
			out[n-1].ParticipantIDs = append(out[n-1].ParticipantIDs, pid)
			continue
		}
		r.ParticipantIDs = []string{pid}
		out = append(out, r)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate registrations: %w", rows.Err())
	}
	return out, nil
}

// Tickets loads the ticket records of one college.
func (l *Loader) Tickets(ctx context.Context, college string) ([]festpdf.ExportRecord, error) {
	participants, err := l.Participants(ctx, college)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoParticipants, college)
	}
	regs, err := l.CollegeRegistrations(ctx, college)
	if err != nil {
		return nil, err
	}
	return source.Records(participants, regs), nil
}

// Roster loads the roster rows of one event. Group events yield groups,
// individual events yield flat entries.
func (l *Loader) Roster(ctx context.Context, eventID string) ([]festpdf.RosterEntry, []festpdf.RosterGroup, error) {
	regs, err := l.EventRegistrations(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	participants, err := l.EventParticipants(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	byID := source.Index(participants)
	if len(regs) > 0 && regs[0].Event.Group {
		return nil, source.GroupRoster(eventID, regs, byID), nil
	}
	return source.FlatRoster(eventID, regs, byID), nil, nil
}
