package registration_test

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/corelearn/training-management/internal/certificate"
	"github.com/corelearn/training-management/internal/notification"
	"github.com/corelearn/training-management/internal/registration"
	"github.com/corelearn/training-management/internal/training"
	"github.com/corelearn/training-management/internal/user"
)

func userFixture(id int64) *user.User {
	return &user.User{ID: id, Email: "lms@example.com", Name: "LMS", Role: user.RoleLMSManager, IsActive: true}
}

func users(us ...*user.User) []*user.User {
	return us
}

// mockRepository mirrors the transactional guarantees of the real
// repository: guarded status transitions and a seat compare-and-swap under
// one lock, so the concurrency scenarios behave like the database would.
type mockRepository struct {
	mu            sync.Mutex
	registrations map[int64]*registration.Registration
	seats         map[int64]*seatCounter
	notifications []*notification.Notification
	certificates  []*certificate.Certificate
	createErr     error
	nextID        int64
}

type seatCounter struct {
	current int
	max     int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		registrations: make(map[int64]*registration.Registration),
		seats:         make(map[int64]*seatCounter),
		nextID:        1,
	}
}

func (m *mockRepository) setSeats(trainingID int64, current, max int) {
	m.seats[trainingID] = &seatCounter{current: current, max: max}
}

func (m *mockRepository) Create(reg *registration.Registration, notif *notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	reg.ID = m.nextID
	m.nextID++
	copied := *reg
	m.registrations[reg.ID] = &copied
	m.notifications = append(m.notifications, notif)
	return nil
}

func (m *mockRepository) GetByID(id int64) (*registration.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.registrations[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *reg
	return &copied, nil
}

func (m *mockRepository) GetByUserID(userID int64) ([]*registration.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*registration.Registration
	for _, reg := range m.registrations {
		if reg.UserID == userID {
			copied := *reg
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRepository) GetAll() ([]*registration.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*registration.Registration
	for _, reg := range m.registrations {
		copied := *reg
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockRepository) GetPendingForManager(managerID int64) ([]*registration.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*registration.Registration
	for _, reg := range m.registrations {
		if reg.Status == registration.StatusPendingManager && reg.ManagerID != nil && *reg.ManagerID == managerID {
			copied := *reg
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRepository) GetPendingLMS() ([]*registration.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*registration.Registration
	for _, reg := range m.registrations {
		if reg.Status == registration.StatusPendingLMS {
			copied := *reg
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRepository) HasActiveRegistration(userID, trainingID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, reg := range m.registrations {
		if reg.UserID == userID && reg.TrainingID == trainingID && reg.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) AdvanceToLMS(id, lmsManagerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.registrations[id]
	if !ok || reg.Status != registration.StatusPendingManager {
		return registration.ErrInvalidTransition
	}
	reg.Status = registration.StatusPendingLMS
	reg.LMSManagerID = &lmsManagerID
	return nil
}

func (m *mockRepository) Reject(id int64, from registration.Status, reason string, notif *notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.registrations[id]
	if !ok || reg.Status != from {
		return registration.ErrInvalidTransition
	}
	reg.Status = registration.StatusRejected
	reg.RejectionReason = &reason
	m.notifications = append(m.notifications, notif)
	return nil
}

func (m *mockRepository) ApproveAndIssue(id, trainingID, deciderID int64, cert *certificate.Certificate, notif *notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.registrations[id]
	if !ok || reg.Status != registration.StatusPendingLMS {
		return registration.ErrInvalidTransition
	}
	seats, ok := m.seats[trainingID]
	if !ok || seats.current >= seats.max {
		return registration.ErrCapacityExceeded
	}
	seats.current++
	reg.Status = registration.StatusApproved
	reg.LMSManagerID = &deciderID
	m.certificates = append(m.certificates, cert)
	m.notifications = append(m.notifications, notif)
	return nil
}

func (m *mockRepository) Cancel(id int64, from registration.Status, trainingID int64, releaseSeat bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.registrations[id]
	if !ok || reg.Status != from {
		return registration.ErrInvalidTransition
	}
	reg.Status = registration.StatusCancelled
	if releaseSeat {
		if seats, ok := m.seats[trainingID]; ok {
			seats.current--
		}
	}
	return nil
}

type mockDirectory struct {
	users       map[int64]*user.User
	managers    map[int64]*user.User
	lmsManagers []*user.User
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		users:    make(map[int64]*user.User),
		managers: make(map[int64]*user.User),
	}
}

func (m *mockDirectory) GetByID(userID int64) (*user.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockDirectory) ManagerFor(userID int64) (*user.User, error) {
	mgr, ok := m.managers[userID]
	if !ok {
		return nil, user.ErrNoManager
	}
	return mgr, nil
}

func (m *mockDirectory) LMSManagers() ([]*user.User, error) {
	return m.lmsManagers, nil
}

type mockCatalog struct {
	mu        sync.Mutex
	trainings map[int64]*training.Training
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{trainings: make(map[int64]*training.Training)}
}

func (m *mockCatalog) GetTrainingByID(id int64) (*training.Training, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trainings[id]
	if !ok {
		return nil, training.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

var _ = Describe("RegistrationService", func() {
	var (
		service   *registration.Service
		repo      *mockRepository
		directory *mockDirectory
		catalog   *mockCatalog
		logger    *slog.Logger

		employee   *user.User
		manager    *user.User
		lmsManager *user.User
	)

	const trainingID = int64(10)

	BeforeEach(func() {
		repo = newMockRepository()
		directory = newMockDirectory()
		catalog = newMockCatalog()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		employee = &user.User{ID: 1, Name: "Anna", Role: user.RoleEmployee, IsActive: true}
		manager = &user.User{ID: 2, Name: "Michael", Role: user.RoleManager, IsActive: true}
		lmsManager = &user.User{ID: 3, Name: "Sandra", Role: user.RoleLMSManager, IsActive: true}

		directory.users[employee.ID] = employee
		directory.users[manager.ID] = manager
		directory.users[lmsManager.ID] = lmsManager
		directory.managers[employee.ID] = manager
		directory.lmsManagers = []*user.User{lmsManager}

		catalog.trainings[trainingID] = &training.Training{
			ID:                  trainingID,
			Title:               "Hochvolt-Systeme Stufe 2",
			Category:            "Elektrik",
			Date:                time.Now().Add(30 * 24 * time.Hour),
			MaxParticipants:     1,
			CurrentParticipants: 0,
		}
		repo.setSeats(trainingID, 0, 1)

		service = registration.NewService(repo, directory, catalog, registration.FirstAvailablePolicy{}, nil, logger)
	})

	submit := func() *registration.Registration {
		reg, err := service.Submit(employee.ID, registration.SubmitDTO{TrainingID: trainingID})
		Expect(err).ToNot(HaveOccurred())
		return reg
	}

	advanceToLMS := func(reg *registration.Registration) {
		_, err := service.ManagerDecision(reg.ID, manager.ID, manager.Role, registration.DecisionDTO{Approve: true})
		Expect(err).ToNot(HaveOccurred())
	}

	Describe("Submit", func() {
		It("creates a pending_manager registration without touching seats", func() {
			reg := submit()

			Expect(reg.Status).To(Equal(registration.StatusPendingManager))
			Expect(reg.ManagerID).ToNot(BeNil())
			Expect(*reg.ManagerID).To(Equal(manager.ID))
			Expect(repo.seats[trainingID].current).To(Equal(0))
			Expect(repo.notifications).To(HaveLen(1))
			Expect(repo.notifications[0].Type).To(Equal(notification.TypeRegistration))
		})

		It("rejects a duplicate active registration", func() {
			submit()

			_, err := service.Submit(employee.ID, registration.SubmitDTO{TrainingID: trainingID})
			Expect(err).To(Equal(registration.ErrDuplicateRegistration))
		})

		It("allows re-registration after a rejection", func() {
			reg := submit()
			_, err := service.ManagerDecision(reg.ID, manager.ID, manager.Role,
				registration.DecisionDTO{Approve: false, Reason: "budget"})
			Expect(err).ToNot(HaveOccurred())

			reg2, err := service.Submit(employee.ID, registration.SubmitDTO{TrainingID: trainingID})
			Expect(err).ToNot(HaveOccurred())
			Expect(reg2.ID).ToNot(Equal(reg.ID))
		})

		It("rejects submission when the training is already full", func() {
			catalog.trainings[trainingID].CurrentParticipants = 1

			_, err := service.Submit(employee.ID, registration.SubmitDTO{TrainingID: trainingID})
			Expect(err).To(Equal(registration.ErrCapacityExceeded))
		})

		It("rejects submission for a past training", func() {
			catalog.trainings[trainingID].Date = time.Now().Add(-24 * time.Hour)

			_, err := service.Submit(employee.ID, registration.SubmitDTO{TrainingID: trainingID})
			Expect(err).To(Equal(registration.ErrTrainingCompleted))
		})

		It("fails when the employee has no manager", func() {
			delete(directory.managers, employee.ID)

			_, err := service.Submit(employee.ID, registration.SubmitDTO{TrainingID: trainingID})
			Expect(err).To(Equal(registration.ErrMissingManager))
		})
	})

	Describe("ManagerDecision", func() {
		It("advances to pending_lms and assigns the lms approver", func() {
			reg := submit()

			updated, err := service.ManagerDecision(reg.ID, manager.ID, manager.Role, registration.DecisionDTO{Approve: true})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Status).To(Equal(registration.StatusPendingLMS))
			Expect(updated.LMSManagerID).ToNot(BeNil())
			Expect(*updated.LMSManagerID).To(Equal(lmsManager.ID))
		})

		It("denies a manager who is not the assigned approver", func() {
			reg := submit()
			other := &user.User{ID: 99, Role: user.RoleManager}

			_, err := service.ManagerDecision(reg.ID, other.ID, other.Role, registration.DecisionDTO{Approve: true})
			Expect(err).To(Equal(registration.ErrUnauthorizedDecision))
		})

		It("denies an lms_manager taking the first-stage decision", func() {
			reg := submit()

			_, err := service.ManagerDecision(reg.ID, lmsManager.ID, lmsManager.Role, registration.DecisionDTO{Approve: true})
			Expect(err).To(Equal(registration.ErrUnauthorizedDecision))
		})

		It("fails the second decision on the same registration without state change", func() {
			reg := submit()
			advanceToLMS(reg)

			_, err := service.ManagerDecision(reg.ID, manager.ID, manager.Role, registration.DecisionDTO{Approve: true})
			Expect(err).To(Equal(registration.ErrInvalidTransition))

			stored, _ := repo.GetByID(reg.ID)
			Expect(stored.Status).To(Equal(registration.StatusPendingLMS))
		})

		It("requires a reason to reject", func() {
			reg := submit()

			_, err := service.ManagerDecision(reg.ID, manager.ID, manager.Role, registration.DecisionDTO{Approve: false})
			Expect(err).To(Equal(registration.ErrMissingReason))

			stored, _ := repo.GetByID(reg.ID)
			Expect(stored.Status).To(Equal(registration.StatusPendingManager))
		})

		It("rejects with a reason and emits the rejection notification", func() {
			reg := submit()

			updated, err := service.ManagerDecision(reg.ID, manager.ID, manager.Role,
				registration.DecisionDTO{Approve: false, Reason: "no budget this quarter"})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Status).To(Equal(registration.StatusRejected))
			Expect(*updated.RejectionReason).To(Equal("no budget this quarter"))

			last := repo.notifications[len(repo.notifications)-1]
			Expect(last.Type).To(Equal(notification.TypeRejection))
		})
	})

	Describe("LMSDecision", func() {
		It("approves, reserves the seat and issues a pending certificate atomically", func() {
			reg := submit()
			advanceToLMS(reg)

			updated, err := service.LMSDecision(reg.ID, lmsManager.ID, lmsManager.Role, registration.DecisionDTO{Approve: true})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Status).To(Equal(registration.StatusApproved))

			Expect(repo.seats[trainingID].current).To(Equal(1))
			Expect(repo.certificates).To(HaveLen(1))
			Expect(repo.certificates[0].WorkdayStatus).To(Equal(certificate.WorkdayPending))
			Expect(repo.certificates[0].UserID).To(Equal(employee.ID))

			last := repo.notifications[len(repo.notifications)-1]
			Expect(last.Type).To(Equal(notification.TypeApproval))
		})

		It("fails before the manager stage completed", func() {
			reg := submit()

			_, err := service.LMSDecision(reg.ID, lmsManager.ID, lmsManager.Role, registration.DecisionDTO{Approve: true})
			Expect(err).To(Equal(registration.ErrInvalidTransition))
		})

		It("denies a manager taking the second-stage decision", func() {
			reg := submit()
			advanceToLMS(reg)

			_, err := service.LMSDecision(reg.ID, manager.ID, manager.Role, registration.DecisionDTO{Approve: true})
			Expect(err).To(Equal(registration.ErrUnauthorizedDecision))
		})

		It("requires a reason to reject at pending_lms", func() {
			reg := submit()
			advanceToLMS(reg)

			_, err := service.LMSDecision(reg.ID, lmsManager.ID, lmsManager.Role, registration.DecisionDTO{Approve: false})
			Expect(err).To(Equal(registration.ErrMissingReason))

			stored, _ := repo.GetByID(reg.ID)
			Expect(stored.Status).To(Equal(registration.StatusPendingLMS))
		})

		It("fails with CapacityExceeded when the last seat is already taken", func() {
			reg := submit()
			advanceToLMS(reg)
			repo.seats[trainingID].current = 1

			_, err := service.LMSDecision(reg.ID, lmsManager.ID, lmsManager.Role, registration.DecisionDTO{Approve: true})
			Expect(err).To(Equal(registration.ErrCapacityExceeded))

			stored, _ := repo.GetByID(reg.ID)
			Expect(stored.Status).To(Equal(registration.StatusPendingLMS))
			Expect(repo.certificates).To(BeEmpty())
		})

		It("lets exactly one of many concurrent approvals win the last seat", func() {
			const contenders = 8
			repo.setSeats(trainingID, 0, 1)

			regs := make([]*registration.Registration, contenders)
			for i := range regs {
				uid := int64(100 + i)
				directory.users[uid] = &user.User{ID: uid, Role: user.RoleEmployee, IsActive: true}
				directory.managers[uid] = manager
				reg, err := service.Submit(uid, registration.SubmitDTO{TrainingID: trainingID})
				Expect(err).ToNot(HaveOccurred())
				advanceToLMS(reg)
				regs[i] = reg
			}

			var wg sync.WaitGroup
			results := make([]error, contenders)
			for i := range regs {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, err := service.LMSDecision(regs[i].ID, lmsManager.ID, lmsManager.Role,
						registration.DecisionDTO{Approve: true})
					results[i] = err
				}(i)
			}
			wg.Wait()

			approvals := 0
			capacityFailures := 0
			for _, err := range results {
				switch err {
				case nil:
					approvals++
				case registration.ErrCapacityExceeded:
					capacityFailures++
				default:
					Fail("unexpected error: " + err.Error())
				}
			}

			Expect(approvals).To(Equal(1))
			Expect(capacityFailures).To(Equal(contenders - 1))
			Expect(repo.seats[trainingID].current).To(Equal(1))
			Expect(repo.certificates).To(HaveLen(1))
		})
	})

	Describe("Cancel", func() {
		It("cancels a pending registration without releasing seats", func() {
			reg := submit()

			updated, err := service.Cancel(reg.ID, employee.ID, employee.Role)
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Status).To(Equal(registration.StatusCancelled))
			Expect(repo.seats[trainingID].current).To(Equal(0))
		})

		It("releases the seat when cancelling an approved registration before the date", func() {
			reg := submit()
			advanceToLMS(reg)
			_, err := service.LMSDecision(reg.ID, lmsManager.ID, lmsManager.Role, registration.DecisionDTO{Approve: true})
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.seats[trainingID].current).To(Equal(1))

			updated, err := service.Cancel(reg.ID, employee.ID, employee.Role)
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Status).To(Equal(registration.StatusCancelled))
			Expect(repo.seats[trainingID].current).To(Equal(0))
		})

		It("refuses to cancel an approved registration after the training date", func() {
			reg := submit()
			advanceToLMS(reg)
			_, err := service.LMSDecision(reg.ID, lmsManager.ID, lmsManager.Role, registration.DecisionDTO{Approve: true})
			Expect(err).ToNot(HaveOccurred())

			catalog.trainings[trainingID].Date = time.Now().Add(-time.Hour)

			_, err = service.Cancel(reg.ID, employee.ID, employee.Role)
			Expect(err).To(Equal(registration.ErrInvalidTransition))
		})

		It("refuses cancellation by another user", func() {
			reg := submit()

			_, err := service.Cancel(reg.ID, manager.ID, manager.Role)
			Expect(err).To(Equal(registration.ErrUnauthorizedDecision))
		})

		It("refuses to cancel a rejected registration", func() {
			reg := submit()
			_, err := service.ManagerDecision(reg.ID, manager.ID, manager.Role,
				registration.DecisionDTO{Approve: false, Reason: "budget"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Cancel(reg.ID, employee.ID, employee.Role)
			Expect(err).To(Equal(registration.ErrInvalidTransition))
		})
	})

	Describe("full approval chain", func() {
		It("walks pending_manager to approved and blocks the next submission", func() {
			reg := submit()
			Expect(reg.Status).To(Equal(registration.StatusPendingManager))

			advanceToLMS(reg)

			approved, err := service.LMSDecision(reg.ID, lmsManager.ID, lmsManager.Role, registration.DecisionDTO{Approve: true})
			Expect(err).ToNot(HaveOccurred())
			Expect(approved.Status).To(Equal(registration.StatusApproved))
			Expect(repo.seats[trainingID].current).To(Equal(1))

			// catalog now reflects the taken seat
			catalog.trainings[trainingID].CurrentParticipants = 1

			directory.users[50] = &user.User{ID: 50, Role: user.RoleEmployee, IsActive: true}
			directory.managers[50] = manager
			_, err = service.Submit(50, registration.SubmitDTO{TrainingID: trainingID})
			Expect(err).To(Equal(registration.ErrCapacityExceeded))
		})
	})
})
