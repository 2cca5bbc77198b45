package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"dormguard-http-service/internal/domain/models"
	"dormguard-http-service/internal/infrastructure/config"
)

// InterfaceVisitorLogService 定义访客出入记录服务接口
type InterfaceVisitorLogService interface {
	GetAllLogs() ([]models.VisitorLog, error)
	GetActiveLogs() ([]models.VisitorLog, error)
	GetLogByID(id uint) (*models.VisitorLog, error)
	GetLogsByVisitor(visitorID uint) ([]models.VisitorLog, error)
	CheckIn(visitorID uint, processedBy uint, idLeft string) (*models.VisitorLog, error)
	CheckOut(visitorID uint) (*models.VisitorLog, error)
}

// VisitorLogService 提供访客签到签出相关的服务
type VisitorLogService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewVisitorLogService 创建一个新的访客出入记录服务
func NewVisitorLogService(db *gorm.DB, cfg *config.Config) InterfaceVisitorLogService {
	return &VisitorLogService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllLogs 获取所有出入记录（含访客、租户和经办人信息）
func (s *VisitorLogService) GetAllLogs() ([]models.VisitorLog, error) {
	var logs []models.VisitorLog
	if err := s.DB.Preload("Visitor").Preload("Visitor.Tenant").
		Preload("Visitor.Tenant.Room").Preload("Processor").
		Order("check_in_time DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// 2 GetActiveLogs 获取所有在场访客的记录（已签到且未签出）
func (s *VisitorLogService) GetActiveLogs() ([]models.VisitorLog, error) {
	var logs []models.VisitorLog
	if err := s.DB.Preload("Visitor").Preload("Visitor.Tenant").
		Preload("Visitor.Tenant.Room").Preload("Processor").
		Where("check_in_time IS NOT NULL AND check_out_time IS NULL").
		Order("check_in_time DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// 3 GetLogByID 根据ID获取出入记录
func (s *VisitorLogService) GetLogByID(id uint) (*models.VisitorLog, error) {
	var log models.VisitorLog
	if err := s.DB.Preload("Visitor").Preload("Visitor.Tenant").Preload("Processor").
		First(&log, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return &log, nil
}

// 4 GetLogsByVisitor 获取某访客的全部出入记录
func (s *VisitorLogService) GetLogsByVisitor(visitorID uint) ([]models.VisitorLog, error) {
	var logs []models.VisitorLog
	if err := s.DB.Preload("Processor").
		Where("visitor_id = ?", visitorID).
		Order("check_in_time DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// 5 CheckIn 访客签到。仅已批准的访客可以签到，且同一访客不允许并存
// 两条未签出的记录。校验与写入在同一事务中完成
func (s *VisitorLogService) CheckIn(visitorID uint, processedBy uint, idLeft string) (*models.VisitorLog, error) {
	var log *models.VisitorLog
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var visitor models.Visitor
		if err := tx.First(&visitor, visitorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVisitorNotFound
			}
			return err
		}
		if visitor.ApprovalStatus != models.ApprovalStatusApproved {
			return ErrNotApproved
		}

		var openCount int64
		if err := tx.Model(&models.VisitorLog{}).
			Where("visitor_id = ? AND check_out_time IS NULL", visitorID).
			Count(&openCount).Error; err != nil {
			return err
		}
		if openCount > 0 {
			return ErrAlreadyCheckedIn
		}

		now := time.Now()
		log = &models.VisitorLog{
			VisitorID:   visitorID,
			CheckInTime: &now,
			IDLeft:      idLeft,
			ProcessedBy: processedBy,
		}
		return tx.Create(log).Error
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

// 6 CheckOut 访客签出。关闭该访客最近一条未签出的记录
func (s *VisitorLogService) CheckOut(visitorID uint) (*models.VisitorLog, error) {
	var log models.VisitorLog
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("visitor_id = ? AND check_out_time IS NULL", visitorID).
			Order("check_in_time DESC").
			First(&log).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoOpenSession
			}
			return err
		}

		now := time.Now()
		if err := tx.Model(&log).
			UpdateColumn("check_out_time", &now).Error; err != nil {
			return err
		}
		log.CheckOutTime = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &log, nil
}
