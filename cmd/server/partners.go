package main

import (
	"context"
	"fmt"
	"strings"
)

type partner struct {
	ID             int64
	Name           string
	Location       string
	Certifications []string
}

func (s *server) listPartners(ctx context.Context) ([]partner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, location, certifications
		FROM partners
		WHERE active = TRUE
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query partners: %w", err)
	}
	defer rows.Close()

	partners := make([]partner, 0)
	for rows.Next() {
		var p partner
		var certs string
		if err := rows.Scan(&p.ID, &p.Name, &p.Location, &certs); err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		p.Certifications = splitCertifications(certs)
		partners = append(partners, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partners: %w", err)
	}

	return partners, nil
}

func splitCertifications(raw string) []string {
	certs := make([]string, 0)
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			certs = append(certs, c)
		}
	}
	return certs
}
