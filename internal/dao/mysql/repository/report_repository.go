package repository

import (
	"bsu_chat_server/internal/model"

	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns the gorm ReportRepository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(reporterID, reportedID uint) error {
	row := model.Report{ReporterID: reporterID, ReportedID: reportedID}
	if err := r.db.Create(&row).Error; err != nil {
		return wrapDBErrorf(err, "report %d -> %d", reporterID, reportedID)
	}
	return nil
}

func (r *reportRepository) FindReportedUsers(threshold int) ([]ReportedUser, error) {
	rows := make([]ReportedUser, 0)
	err := r.db.Table("users").
		Select("users.id, users.email, users.phone, users.full_name, users.faculty, users.degree, users.course, users.is_active, COUNT(reports.id) AS report_count").
		Joins("JOIN reports ON reports.reported_id = users.id").
		Group("users.id, users.email, users.phone, users.full_name, users.faculty, users.degree, users.course, users.is_active").
		Having("COUNT(reports.id) >= ?", threshold).
		Order("report_count DESC, users.id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDBError(err, "query reported users")
	}
	return rows, nil
}
