package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/controlly-api/internal/models"
	"github.com/controlly-api/internal/repository"
	"github.com/rs/zerolog"
)

// exportService is the concrete implementation of ExportService
type exportService struct {
	*facade
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, f *facade, log zerolog.Logger) *exportService {
	return &exportService{
		facade: f,
		repos:  repos,
		log:    log.With().Str("service", "export").Logger(),
	}
}

// StreamCustomers writes every customer in the requested format
func (s *exportService) StreamCustomers(ctx context.Context, w http.ResponseWriter, format string) (err error) {
	defer s.track("export_customers", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return err
	}
	customers, err := s.repos.Customer.List(ctx)
	if err != nil {
		return err
	}
	s.log.Info().Str("format", format).Int("count", len(customers)).Msg("Starting customers export")

	switch format {
	case "ndjson":
		return streamNDJSON(w, "customers", customers)
	case "json":
		return streamJSON(w, "customers", customers)
	case "csv":
		header := []string{"id", "name", "email", "plan", "seats", "lastActive"}
		return streamCSV(w, "customers", header, customers, func(c models.Customer) []string {
			return []string{
				strconv.Itoa(c.ID),
				c.Name,
				c.Email,
				string(c.Plan),
				strconv.Itoa(c.Seats),
				c.LastActive.Format(time.RFC3339),
			}
		})
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// StreamStaff writes every staff account in the requested format
func (s *exportService) StreamStaff(ctx context.Context, w http.ResponseWriter, format string) (err error) {
	defer s.track("export_staff", time.Now(), &err)
	if err = s.wait(ctx); err != nil {
		return err
	}
	users, err := s.repos.User.List(ctx)
	if err != nil {
		return err
	}
	s.log.Info().Str("format", format).Int("count", len(users)).Msg("Starting staff export")

	switch format {
	case "ndjson":
		return streamNDJSON(w, "staff", users)
	case "json":
		return streamJSON(w, "staff", users)
	case "csv":
		header := []string{"id", "name", "email", "role", "status", "plan", "lastLogin"}
		return streamCSV(w, "staff", header, users, func(u models.User) []string {
			return []string{
				strconv.Itoa(u.ID),
				u.Name,
				u.Email,
				string(u.Role),
				string(u.Status),
				string(u.Plan),
				u.LastLogin.Format(time.RFC3339),
			}
		})
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func streamNDJSON[T any](w http.ResponseWriter, name string, items []T) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename="+name+".ndjson")

	flusher, _ := w.(http.Flusher)
	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}

		// Flush every 100 records for streaming
		if (i+1)%100 == 0 && flusher != nil {
			flusher.Flush()
		}
	}
	return nil
}

func streamJSON[T any](w http.ResponseWriter, name string, items []T) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+name+".json")

	write := func(b []byte) error {
		if _, err := w.Write(b); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		return nil
	}

	if err := write([]byte("[")); err != nil {
		return err
	}
	for i, item := range items {
		if i > 0 {
			if err := write([]byte(",")); err != nil {
				return err
			}
		}
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if err := write(data); err != nil {
			return err
		}
	}
	return write([]byte("]"))
}

func streamCSV[T any](w http.ResponseWriter, name string, header []string, items []T, row func(T) []string) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+name+".csv")

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write(row(item)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
