package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/pblab/pblab/internal/app/models"
	"github.com/pblab/pblab/internal/pkg/apperrors"
)

// In-memory stores standing in for the pgx repositories.

type fakeObjectiveStore struct {
	objectives map[string]*models.LearningObjective
	counts     map[string]int
}

func newFakeObjectiveStore() *fakeObjectiveStore {
	return &fakeObjectiveStore{
		objectives: make(map[string]*models.LearningObjective),
		counts:     make(map[string]int),
	}
}

func (f *fakeObjectiveStore) Create(_ context.Context, o *models.LearningObjective) (string, error) {
	o.ID = uuid.New().String()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	cp := *o
	f.objectives[o.ID] = &cp
	return o.ID, nil
}

func (f *fakeObjectiveStore) GetByID(_ context.Context, id string) (*models.LearningObjective, error) {
	o, ok := f.objectives[id]
	if !ok {
		return nil, apperrors.ErrObjectiveNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeObjectiveStore) ListByStudentAndProject(_ context.Context, studentID, projectID string) ([]*models.LearningObjective, error) {
	out := make([]*models.LearningObjective, 0)
	for _, o := range f.objectives {
		if o.StudentID == studentID && o.ProjectID == projectID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeObjectiveStore) ListWithEvidenceCounts(ctx context.Context, studentID, projectID string) ([]*models.ObjectiveProgress, error) {
	objectives, _ := f.ListByStudentAndProject(ctx, studentID, projectID)
	out := make([]*models.ObjectiveProgress, 0, len(objectives))
	for _, o := range objectives {
		out = append(out, &models.ObjectiveProgress{
			Objective:     *o,
			EvidenceCount: f.counts[o.ID],
		})
	}
	return out, nil
}

func (f *fakeObjectiveStore) UpdateDetails(_ context.Context, o *models.LearningObjective) error {
	if _, ok := f.objectives[o.ID]; !ok {
		return apperrors.ErrObjectiveNotFound
	}
	cp := *o
	f.objectives[o.ID] = &cp
	return nil
}

func (f *fakeObjectiveStore) UpdateStatus(_ context.Context, id string, status models.ObjectiveStatus) error {
	o, ok := f.objectives[id]
	if !ok {
		return apperrors.ErrObjectiveNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeObjectiveStore) Delete(_ context.Context, id string) error {
	if _, ok := f.objectives[id]; !ok {
		return apperrors.ErrObjectiveNotFound
	}
	delete(f.objectives, id)
	return nil
}

func (f *fakeObjectiveStore) CountByStudentAndProject(ctx context.Context, studentID, projectID string) (int, error) {
	objectives, _ := f.ListByStudentAndProject(ctx, studentID, projectID)
	return len(objectives), nil
}

type fakeProjectStore struct {
	ids map[string]bool
}

func newFakeProjectStore(ids ...string) *fakeProjectStore {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return &fakeProjectStore{ids: m}
}

func (f *fakeProjectStore) Exists(_ context.Context, id string) (bool, error) {
	return f.ids[id], nil
}

type fakeArtifactStore struct {
	artifacts map[string]*models.EvidenceArtifact
}

func newFakeArtifactStore() *fakeArtifactStore {
	return &fakeArtifactStore{artifacts: make(map[string]*models.EvidenceArtifact)}
}

func (f *fakeArtifactStore) Create(_ context.Context, a *models.EvidenceArtifact) (string, error) {
	a.ID = uuid.New().String()
	a.UploadDate = time.Now()
	cp := *a
	f.artifacts[a.ID] = &cp
	return a.ID, nil
}

func (f *fakeArtifactStore) GetByID(_ context.Context, id string) (*models.EvidenceArtifact, error) {
	a, ok := f.artifacts[id]
	if !ok {
		return nil, apperrors.ErrArtifactNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeArtifactStore) ListByObjective(_ context.Context, objectiveID string) ([]*models.EvidenceArtifact, error) {
	out := make([]*models.EvidenceArtifact, 0)
	for _, a := range f.artifacts {
		if a.LearningObjectiveID == objectiveID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeArtifactStore) CountByStudentAndProject(_ context.Context, studentID, _ string) (int, error) {
	count := 0
	for _, a := range f.artifacts {
		if a.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeArtifactStore) Delete(_ context.Context, id string) error {
	if _, ok := f.artifacts[id]; !ok {
		return apperrors.ErrArtifactNotFound
	}
	delete(f.artifacts, id)
	return nil
}

type fakeAssessmentStore struct {
	assessments map[string]*models.IndividualAssessment
}

func newFakeAssessmentStore() *fakeAssessmentStore {
	return &fakeAssessmentStore{assessments: make(map[string]*models.IndividualAssessment)}
}

func (f *fakeAssessmentStore) Create(_ context.Context, a *models.IndividualAssessment) (string, error) {
	a.ID = uuid.New().String()
	a.AssessmentDate = time.Now()
	cp := *a
	f.assessments[a.ID] = &cp
	return a.ID, nil
}

func (f *fakeAssessmentStore) GetByID(_ context.Context, id string) (*models.IndividualAssessment, error) {
	a, ok := f.assessments[id]
	if !ok {
		return nil, apperrors.ErrAssessmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAssessmentStore) ListByStudentAndProject(_ context.Context, studentID, projectID string) ([]*models.IndividualAssessment, error) {
	out := make([]*models.IndividualAssessment, 0)
	for _, a := range f.assessments {
		if a.StudentID == studentID && a.ProjectID == projectID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAssessmentStore) AttachFeedback(_ context.Context, id string, feedback string, score *float64, achievement *int, assessedBy string, status models.AssessmentStatus) error {
	a, ok := f.assessments[id]
	if !ok {
		return apperrors.ErrAssessmentNotFound
	}
	a.EducatorFeedback = feedback
	a.AssessedBy = assessedBy
	a.Status = status
	if score != nil {
		a.AssessmentScore = score
	}
	if achievement != nil {
		a.CompetencyAchievement = achievement
	}
	return nil
}

func (f *fakeAssessmentStore) Delete(_ context.Context, id string) error {
	if _, ok := f.assessments[id]; !ok {
		return apperrors.ErrAssessmentNotFound
	}
	delete(f.assessments, id)
	return nil
}

// fakeStorage satisfies filestorage.FileStorage without touching disk.
type fakeStorage struct {
	saved   []string
	deleted []string
}

func (f *fakeStorage) SaveFile(_ *multipart.FileHeader) (string, error) {
	f.saved = append(f.saved, "evidence/file")
	return "evidence/file", nil
}

func (f *fakeStorage) SaveFileWithPath(_ *multipart.FileHeader, path string) (string, error) {
	p := path + "/file"
	f.saved = append(f.saved, p)
	return p, nil
}

func (f *fakeStorage) DeleteFile(filePath string) error {
	f.deleted = append(f.deleted, filePath)
	return nil
}

func (f *fakeStorage) GetFullPath(fileURL string) string {
	return fileURL
}
