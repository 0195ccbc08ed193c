package filesystem

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/user/review-harvester/internal/entity"
	"github.com/user/review-harvester/internal/repository"
)

var catalogHeader = []string{"ID", "Title", "Year", "Image", "Pages"}

// CatalogRepoImpl stores the catalog snapshot as a CSV file.
type CatalogRepoImpl struct {
	path string
}

// NewCatalogRepo creates a new instance of CatalogRepoImpl.
func NewCatalogRepo(path string) *CatalogRepoImpl {
	return &CatalogRepoImpl{path: path}
}

// Load reads the snapshot in file order. It returns repository.ErrCatalogNotFound
// when the file does not exist.
func (r *CatalogRepoImpl) Load(_ context.Context) ([]entity.Film, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, repository.ErrCatalogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", r.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(catalogHeader)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, repository.ErrCatalogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	for i, name := range catalogHeader {
		if header[i] != name {
			return nil, fmt.Errorf("catalog %s: unexpected column %q, want %q", r.path, header[i], name)
		}
	}

	var films []entity.Film
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row %d: %w", line, err)
		}
		film, err := parseFilmRow(row)
		if err != nil {
			return nil, fmt.Errorf("catalog %s line %d: %w", r.path, line, err)
		}
		films = append(films, film)
	}
	return films, nil
}

// Save writes the snapshot, replacing any previous file atomically.
func (r *CatalogRepoImpl) Save(_ context.Context, films []entity.Film) error {
	err := writeFileAtomic(r.path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(catalogHeader); err != nil {
			return err
		}
		for _, film := range films {
			if err := w.Write([]string{
				strconv.Itoa(film.ID),
				film.Title,
				strconv.Itoa(film.Year),
				film.Image,
				strconv.Itoa(film.Pages),
			}); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
	if err != nil {
		return fmt.Errorf("save catalog %s: %w", r.path, err)
	}
	return nil
}

func parseFilmRow(row []string) (entity.Film, error) {
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return entity.Film{}, fmt.Errorf("invalid ID %q: %w", row[0], err)
	}
	year, err := strconv.Atoi(row[2])
	if err != nil {
		return entity.Film{}, fmt.Errorf("invalid Year %q: %w", row[2], err)
	}
	pages, err := strconv.Atoi(row[4])
	if err != nil || pages < 0 {
		return entity.Film{}, fmt.Errorf("invalid Pages %q", row[4])
	}
	return entity.Film{ID: id, Title: row[1], Year: year, Image: row[3], Pages: pages}, nil
}
