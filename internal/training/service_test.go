package training_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/corelearn/training-management/internal"
	"github.com/corelearn/training-management/internal/training"
	"github.com/corelearn/training-management/internal/user"
)

type mockTrainingRepository struct {
	trainings map[int64]*training.Training
	createErr error
	getAllErr error
	nextID    int64
}

func newMockTrainingRepository() *mockTrainingRepository {
	return &mockTrainingRepository{
		trainings: make(map[int64]*training.Training),
		nextID:    1,
	}
}

func (m *mockTrainingRepository) add(t *training.Training) *training.Training {
	t.ID = m.nextID
	m.nextID++
	m.trainings[t.ID] = t
	return t
}

func (m *mockTrainingRepository) Create(t *training.Training) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.add(t)
	return nil
}

func (m *mockTrainingRepository) GetByID(id int64) (*training.Training, error) {
	t, ok := m.trainings[id]
	if !ok {
		return nil, training.ErrNotFound
	}
	return t, nil
}

func (m *mockTrainingRepository) GetAll() ([]*training.Training, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	out := make([]*training.Training, 0, len(m.trainings))
	for id := int64(1); id < m.nextID; id++ {
		if t, ok := m.trainings[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTrainingRepository) GetByCategory(category string) ([]*training.Training, error) {
	all, err := m.GetAll()
	if err != nil {
		return nil, err
	}
	var out []*training.Training
	for _, t := range all {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out, nil
}

var _ = Describe("TrainingService", func() {
	var (
		service *training.Service
		repo    *mockTrainingRepository
		logger  *slog.Logger
	)

	future := time.Now().Add(60 * 24 * time.Hour)
	past := time.Now().Add(-30 * 24 * time.Hour)

	BeforeEach(func() {
		repo = newMockTrainingRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = training.NewService(repo, logger)
	})

	Describe("CreateTraining", func() {
		dto := training.CreateTrainingDTO{
			Title:           "Hochvolt-Systeme Stufe 2",
			Category:        "Elektrik",
			Date:            time.Now().Add(45 * 24 * time.Hour),
			MaxParticipants: 10,
			Price:           50000,
			Provider:        "TÜV Akademie",
		}

		It("creates a catalog entry for an lms manager", func() {
			created, err := service.CreateTraining(dto, 3, user.RoleLMSManager)
			Expect(err).ToNot(HaveOccurred())

			Expect(created.ID).ToNot(BeZero())
			Expect(created.Status).To(Equal(training.StatusAvailable))
			Expect(created.CreatedBy).To(Equal(int64(3)))
		})

		It("denies employees and managers", func() {
			_, err := service.CreateTraining(dto, 1, user.RoleEmployee)
			Expect(err).To(HaveOccurred())

			_, err = service.CreateTraining(dto, 2, user.RoleManager)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeUnauthorizedDecision))
		})

		It("rejects an invalid payload before hitting the repository", func() {
			bad := dto
			bad.Category = "Kochen"

			_, err := service.CreateTraining(bad, 3, user.RoleLMSManager)
			Expect(err).To(HaveOccurred())
			Expect(repo.trainings).To(BeEmpty())
		})
	})

	Describe("ListTrainings", func() {
		BeforeEach(func() {
			repo.add(&training.Training{Title: "Hochvolt-Systeme Stufe 2", Description: "HV-Technik", Category: "Elektrik", Provider: "TÜV", Date: future, MaxParticipants: 10, CurrentParticipants: 2, Tags: []string{"hochvolt", "pflicht"}})
			repo.add(&training.Training{Title: "Bremsanlagen Diagnose", Category: "Bremsen", Provider: "DEKRA", Date: future, MaxParticipants: 5, CurrentParticipants: 5})
			repo.add(&training.Training{Title: "Ladungssicherung Auffrischung", Category: "Sicherheit", Provider: "DEKRA", Date: past, MaxParticipants: 20, CurrentParticipants: 12})
		})

		It("returns everything with derived status when the filter is empty", func() {
			trainings, err := service.ListTrainings(training.ListFilter{})
			Expect(err).ToNot(HaveOccurred())
			Expect(trainings).To(HaveLen(3))
			Expect(trainings[0].Status).To(Equal(training.StatusAvailable))
			Expect(trainings[1].Status).To(Equal(training.StatusFull))
			Expect(trainings[2].Status).To(Equal(training.StatusCompleted))
		})

		It("filters by category", func() {
			trainings, err := service.ListTrainings(training.ListFilter{Category: "Bremsen"})
			Expect(err).ToNot(HaveOccurred())
			Expect(trainings).To(HaveLen(1))
			Expect(trainings[0].Title).To(Equal("Bremsanlagen Diagnose"))
		})

		It("treats category all as no filter", func() {
			trainings, err := service.ListTrainings(training.ListFilter{Category: "all"})
			Expect(err).ToNot(HaveOccurred())
			Expect(trainings).To(HaveLen(3))
		})

		It("filters by derived status", func() {
			trainings, err := service.ListTrainings(training.ListFilter{Status: training.StatusFull})
			Expect(err).ToNot(HaveOccurred())
			Expect(trainings).To(HaveLen(1))
			Expect(trainings[0].Title).To(Equal("Bremsanlagen Diagnose"))
		})

		It("matches the query against title, provider and tags case-insensitively", func() {
			byTitle, err := service.ListTrainings(training.ListFilter{Query: "hochvolt"})
			Expect(err).ToNot(HaveOccurred())
			Expect(byTitle).To(HaveLen(1))

			byProvider, err := service.ListTrainings(training.ListFilter{Query: "dekra"})
			Expect(err).ToNot(HaveOccurred())
			Expect(byProvider).To(HaveLen(2))

			byTag, err := service.ListTrainings(training.ListFilter{Query: "pflicht"})
			Expect(err).ToNot(HaveOccurred())
			Expect(byTag).To(HaveLen(1))
		})

		It("combines status and query filters", func() {
			trainings, err := service.ListTrainings(training.ListFilter{Status: training.StatusCompleted, Query: "dekra"})
			Expect(err).ToNot(HaveOccurred())
			Expect(trainings).To(HaveLen(1))
			Expect(trainings[0].Title).To(Equal("Ladungssicherung Auffrischung"))
		})
	})

	Describe("GetTrainingByID", func() {
		It("wraps a missing id in a not-found error", func() {
			_, err := service.GetTrainingByID(404)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeTrainingNotFound))
		})
	})
})
