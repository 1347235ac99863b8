package repositories

import (
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pblab/pblab/internal/app/models"
	"github.com/pblab/pblab/internal/pkg/apperrors"
)

// stubRow feeds canned column values into a scan. A nil value leaves the
// destination untouched, mirroring how pgx handles NULL into a pointer.
type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		if r.values[i] == nil {
			continue
		}
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

func TestScanArtifactNullableColumns(t *testing.T) {
	uploaded := time.Now()

	t.Run("link artifact with NULL description and file_path", func(t *testing.T) {
		url := "https://github.com/ada/solver"
		a, err := scanArtifact(stubRow{values: []any{
			"artifact-1", "objective-1", "student-a", models.ArtifactLink, "Solver repo",
			nil, nil, &url, uploaded,
		}})
		require.NoError(t, err)
		assert.Empty(t, a.Description)
		assert.Empty(t, a.FilePath)
		assert.Equal(t, url, a.ExternalURL)
	})

	t.Run("file artifact with NULL external_url", func(t *testing.T) {
		path := "/uploads/evidence/report.pdf"
		desc := "final report"
		a, err := scanArtifact(stubRow{values: []any{
			"artifact-2", "objective-1", "student-a", models.ArtifactDocument, "Report",
			&desc, &path, nil, uploaded,
		}})
		require.NoError(t, err)
		assert.Equal(t, desc, a.Description)
		assert.Equal(t, path, a.FilePath)
		assert.Empty(t, a.ExternalURL)
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		_, err := scanArtifact(stubRow{err: pgx.ErrNoRows})
		assert.ErrorIs(t, err, apperrors.ErrArtifactNotFound)
	})
}

func TestNullableText(t *testing.T) {
	assert.Nil(t, nullableText(""))

	got := nullableText("https://example.edu/demo")
	require.NotNil(t, got)
	assert.Equal(t, "https://example.edu/demo", *got)
}
