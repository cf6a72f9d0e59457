package db

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"MailDesk/internal/csvparser"
	"MailDesk/internal/models"
)

const contactColumns = `id::text, email, name, company, tags, is_subscribed, created_at`

func scanContact(row pgx.Row) (models.Contact, error) {
	var c models.Contact
	err := row.Scan(
		&c.ID,
		&c.Email,
		&c.Name,
		&c.Company,
		&c.Tags,
		&c.IsSubscribed,
		&c.CreatedAt,
	)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c, err
}

func collectContacts(rows pgx.Rows) ([]models.Contact, error) {
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// ListContacts returns one page of contacts, newest first, and the total
// number matching search. An empty search matches everything.
func (s *Store) ListContacts(
	ctx context.Context,
	search string,
	limit, offset int,
) ([]models.Contact, int, error) {

	pattern := "%" + strings.TrimSpace(search) + "%"

	var total int
	err := s.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contacts
		 WHERE email ILIKE $1 OR name ILIKE $1`,
		pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.Pool.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts
		 WHERE email ILIKE $1 OR name ILIKE $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		pattern,
		limit,
		offset,
	)
	if err != nil {
		return nil, 0, err
	}

	contacts, err := collectContacts(rows)
	return contacts, total, err
}

func (s *Store) CreateContact(
	ctx context.Context,
	in models.ContactInput,
) (*models.Contact, error) {

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	c, err := scanContact(s.Pool.QueryRow(ctx,
		`INSERT INTO contacts
		 (id, email, name, company, tags, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
		 RETURNING `+contactColumns,
		uuid.NewString(),
		strings.ToLower(strings.TrimSpace(in.Email)),
		in.Name,
		in.Company,
		tags,
	))
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) DeleteContact(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM contacts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ImportContacts inserts rows in one transaction. Rows whose email already
// exists are counted as skipped.
func (s *Store) ImportContacts(
	ctx context.Context,
	rows []csvparser.ContactRow,
) (imported, skipped int, err error) {

	err = pgx.BeginFunc(ctx, s.Pool, func(tx pgx.Tx) error {
		imported, skipped = 0, 0
		for _, r := range rows {
			tag, err := tx.Exec(ctx,
				`INSERT INTO contacts
				 (id, email, name, company, created_at, updated_at)
				 VALUES ($1,$2,$3,$4,NOW(),NOW())
				 ON CONFLICT (email) DO NOTHING`,
				uuid.NewString(),
				strings.ToLower(r.Email),
				r.Name,
				r.Company,
			)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				skipped++
			} else {
				imported++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return imported, skipped, nil
}
