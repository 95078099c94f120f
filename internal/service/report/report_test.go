package report

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mvillanueva/dentaladmin_backend/internal/model"
)

func consultation(status, first, last, dentist string) model.Consultation {
	return model.Consultation{
		Status:  status,
		Patient: &model.Patient{FirstName: first, LastName: last},
		Dentist: &model.Dentist{Name: dentist},
	}
}

func TestDeriveStatusCountsEmpty(t *testing.T) {
	counts := DeriveStatusCounts(nil)
	if counts != (StatusCounts{}) {
		t.Errorf("DeriveStatusCounts(nil) = %+v, want all zero", counts)
	}
}

func TestDeriveStatusCountsCaseInsensitive(t *testing.T) {
	list := []model.Consultation{
		{Status: "pending"},
		{Status: "Pending"},
		{Status: "APPROVED"},
	}
	counts := DeriveStatusCounts(list)
	want := StatusCounts{Total: 3, Pending: 2, Approved: 1}
	if counts != want {
		t.Errorf("DeriveStatusCounts() = %+v, want %+v", counts, want)
	}
}

func TestDeriveMonthlyTrendIgnoresYear(t *testing.T) {
	list := []model.Consultation{
		{AppointmentDate: time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{AppointmentDate: time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)},
		{AppointmentDate: time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)},
	}
	buckets := DeriveMonthlyTrend(list)
	if buckets[2] != 2 {
		t.Errorf("March bucket = %d, want 2 (years merged)", buckets[2])
	}
	if buckets[11] != 1 {
		t.Errorf("December bucket = %d, want 1", buckets[11])
	}
}

func TestDerivePerDentistStats(t *testing.T) {
	list := []model.Consultation{
		consultation("approved", "Ana", "Cruz", "Dr. Lee"),
		consultation("pending", "Ben", "Ong", "Dr. Lee"),
	}
	stats := DerivePerDentistStats(list)
	want := []DentistStats{{Dentist: "Dr. Lee", Total: 2, Approved: 1, Pending: 1}}
	if !reflect.DeepEqual(stats, want) {
		t.Errorf("DerivePerDentistStats() = %+v, want %+v", stats, want)
	}
}

func TestDerivePerDentistStatsUnknown(t *testing.T) {
	list := []model.Consultation{
		{Status: "pending"}, // no dentist relation
		consultation("approved", "Ana", "Cruz", "Dr. Lee"),
	}
	stats := DerivePerDentistStats(list)
	if len(stats) != 2 {
		t.Fatalf("buckets = %d, want 2", len(stats))
	}
	if stats[0].Dentist != "Unknown" || stats[0].Total != 1 {
		t.Errorf("unknown bucket = %+v", stats[0])
	}
}

func TestFilterConsultations(t *testing.T) {
	list := []model.Consultation{
		consultation("approved", "Ana", "Cruz", "Dr. Lee"),
		consultation("pending", "Ben", "Ong", "Dr. Lee"),
	}

	tests := []struct {
		name   string
		status string
		search string
		want   int
	}{
		{"all", "all", "", 2},
		{"status only", "pending", "", 1},
		{"status excludes search hit", "pending", "ana", 0},
		{"search only", "all", "ana", 1},
		{"search full name", "all", "ana cruz", 1},
		{"case-insensitive status", "APPROVED", "", 1},
		{"no match", "rejected", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterConsultations(list, tt.status, tt.search)
			if len(got) != tt.want {
				t.Errorf("FilterConsultations(%q, %q) = %d rows, want %d",
					tt.status, tt.search, len(got), tt.want)
			}
		})
	}
}

func TestFilterConsultationsIdempotent(t *testing.T) {
	list := []model.Consultation{
		consultation("approved", "Ana", "Cruz", "Dr. Lee"),
		consultation("pending", "Ben", "Ong", "Dr. Lee"),
		consultation("pending", "Ana", "Reyes", "Dr. Cruz"),
	}
	once := FilterConsultations(list, "pending", "ana")
	twice := FilterConsultations(once, "pending", "ana")
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filter not idempotent: %+v vs %+v", once, twice)
	}
}

func TestPaginate(t *testing.T) {
	list := make([]model.Consultation, 12)
	for i := range list {
		list[i].ID = uint(i + 1)
	}

	page1 := Paginate(list, 1)
	if len(page1) != PageSize || page1[0].ID != 1 {
		t.Errorf("page 1 = %d rows starting at %d", len(page1), page1[0].ID)
	}
	page3 := Paginate(list, 3)
	if len(page3) != 2 || page3[0].ID != 11 {
		t.Errorf("page 3 = %d rows, want 2 starting at 11", len(page3))
	}
	if got := Paginate(list, 9); len(got) != 0 {
		t.Errorf("page past end = %d rows, want 0", len(got))
	}
	if got := TotalPages(12); got != 3 {
		t.Errorf("TotalPages(12) = %d, want 3", got)
	}
	if got := TotalPages(0); got != 1 {
		t.Errorf("TotalPages(0) = %d, want 1", got)
	}
}

func TestDashboard(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Patient{}, &model.Dentist{}, &model.Secretary{}, &model.Consultation{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	patient := model.Patient{FirstName: "Ana", LastName: "Cruz", Email: "ana@example.com"}
	dentist := model.Dentist{Name: "Dr. Lee", Email: "lee@example.com"}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	if err := db.Create(&dentist).Error; err != nil {
		t.Fatalf("seed dentist: %v", err)
	}
	for _, status := range []string{"pending", "pending", "approved"} {
		c := model.Consultation{
			PatientID: patient.ID, DentistID: dentist.ID,
			Status: status, AppointmentDate: time.Now(),
		}
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("seed consultation: %v", err)
		}
	}

	metrics, err := New(db).Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	want := DashboardMetrics{
		Patients: 1, Dentists: 1,
		Consultations: 3, PendingConsultations: 2,
	}
	if *metrics != want {
		t.Errorf("Dashboard() = %+v, want %+v", *metrics, want)
	}
}
