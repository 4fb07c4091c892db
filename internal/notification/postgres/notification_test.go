package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/corelearn/training-management/internal/notification"
	notificationPostgres "github.com/corelearn/training-management/internal/notification/postgres"
)

func TestNotificationPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Postgres Suite")
}

// SQLiteNotification is a SQLite-compatible model for testing
type SQLiteNotification struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Type      string    `gorm:"column:type;not null"`
	Title     string    `gorm:"column:title;not null"`
	Message   string    `gorm:"column:message"`
	Date      time.Time `gorm:"column:date;not null"`
	Read      bool      `gorm:"column:read;default:false"`
	ActionURL *string   `gorm:"column:action_url"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SQLiteNotification) TableName() string {
	return "notifications"
}

var _ = Describe("Notification PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo notification.RepositoryAPI
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteNotification{})
		Expect(err).NotTo(HaveOccurred())

		repo = notificationPostgres.NewNotificationRepository(db)
	})

	create := func(userID int64, at time.Time) *notification.Notification {
		n := notification.New(userID, notification.TypeRegistration, "Registration submitted", "Awaiting approval.", nil, at)
		Expect(repo.Create(n)).To(Succeed())
		return n
	}

	Describe("Create", func() {
		It("persists the row and backfills the id", func() {
			n := create(7, time.Now())
			Expect(n.ID).To(BeNumerically(">", 0))

			stored, err := repo.GetByID(n.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Title).To(Equal("Registration submitted"))
			Expect(stored.Read).To(BeFalse())
		})
	})

	Describe("GetByUserID", func() {
		It("returns only the user's notifications, newest first", func() {
			base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
			oldest := create(7, base)
			newest := create(7, base.Add(2*time.Hour))
			middle := create(7, base.Add(time.Hour))
			create(8, base.Add(3*time.Hour))

			notifications, err := repo.GetByUserID(7)
			Expect(err).NotTo(HaveOccurred())
			Expect(notifications).To(HaveLen(3))
			Expect(notifications[0].ID).To(Equal(newest.ID))
			Expect(notifications[1].ID).To(Equal(middle.ID))
			Expect(notifications[2].ID).To(Equal(oldest.ID))
		})
	})

	Describe("MarkRead", func() {
		It("marks the user's own notification", func() {
			n := create(7, time.Now())

			Expect(repo.MarkRead(n.ID, 7)).To(Succeed())

			stored, err := repo.GetByID(n.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Read).To(BeTrue())
		})

		It("refuses to mark another user's notification", func() {
			n := create(7, time.Now())

			err := repo.MarkRead(n.ID, 8)
			Expect(err).To(Equal(notification.ErrNotFound))

			stored, err := repo.GetByID(n.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Read).To(BeFalse())
		})

		It("returns ErrNotFound for a missing id", func() {
			Expect(repo.MarkRead(999, 7)).To(Equal(notification.ErrNotFound))
		})
	})

	Describe("CountUnread and MarkAllRead", func() {
		It("counts only unread rows and clears them per user", func() {
			create(7, time.Now())
			create(7, time.Now())
			other := create(8, time.Now())

			count, err := repo.CountUnread(7)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))

			Expect(repo.MarkAllRead(7)).To(Succeed())

			count, err = repo.CountUnread(7)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())

			stored, err := repo.GetByID(other.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Read).To(BeFalse())
		})
	})
})
