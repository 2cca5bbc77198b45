package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"dormguard-http-service/internal/domain/models"
	"dormguard-http-service/internal/infrastructure/config"
)

// AdvanceNotice 访客申请必须提前的最短时长
const AdvanceNotice = 12 * time.Hour

// InterfaceVisitorService 定义访客服务接口
type InterfaceVisitorService interface {
	GetAllVisitors() ([]models.Visitor, error)
	GetVisitorByID(id uint) (*models.Visitor, error)
	GetVisitorsByTenant(tenantID uint) ([]models.Visitor, error)
	GetVisitorsByStatus(status models.ApprovalStatus) ([]models.Visitor, error)
	SubmitVisitor(tenantID uint, req SubmitVisitorRequest) (*models.Visitor, error)
	UpdateStatus(id uint, status models.ApprovalStatus) (*models.Visitor, error)
	UpdateVisitorByTenant(id uint, tenantID uint, fields VisitorUpdateFields) (*models.Visitor, error)
	DeleteVisitorByTenant(id uint, tenantID uint) error
	DeleteVisitor(id uint) error
}

// SubmitVisitorRequest 访客登记请求
type SubmitVisitorRequest struct {
	FullName      string `json:"full_name"`
	ContactNumber string `json:"contact_number"`
	Purpose       string `json:"purpose"`
	ExpectedDate  string `json:"expected_date"`
	ExpectedTime  string `json:"expected_time"`
}

// VisitorUpdateFields 租户可修改的访客字段封闭集合，仅待审批时生效
type VisitorUpdateFields struct {
	FullName      *string
	ContactNumber *string
	Purpose       *string
	ExpectedDate  *string
	ExpectedTime  *string
}

// VisitorService 提供访客登记与审批相关的服务
type VisitorService struct {
	DB     *gorm.DB
	Config *config.Config

	// Now 返回当前时间，测试中可替换以便校验提前量边界
	Now func() time.Time
}

// NewVisitorService 创建一个新的访客服务
func NewVisitorService(db *gorm.DB, cfg *config.Config) InterfaceVisitorService {
	return &VisitorService{
		DB:     db,
		Config: cfg,
		Now:    time.Now,
	}
}

// parseVisitInstant 将日期和可选时间合并为到访时刻。时间缺省按当天零点，
// 即按对租户最严格的方式计算提前量
func parseVisitInstant(date, clock string) (time.Time, error) {
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// 1 GetAllVisitors 获取所有访客申请（含租户、房间和出入记录）
func (s *VisitorService) GetAllVisitors() ([]models.Visitor, error) {
	var visitors []models.Visitor
	if err := s.DB.Preload("Tenant").Preload("Tenant.Room").Preload("Logs").
		Order("created_at DESC").
		Find(&visitors).Error; err != nil {
		return nil, err
	}
	return visitors, nil
}

// 2 GetVisitorByID 根据ID获取访客申请
func (s *VisitorService) GetVisitorByID(id uint) (*models.Visitor, error) {
	var visitor models.Visitor
	if err := s.DB.Preload("Tenant").Preload("Tenant.Room").Preload("Logs").
		First(&visitor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		return nil, err
	}
	return &visitor, nil
}

// 3 GetVisitorsByTenant 获取某租户的全部访客申请
func (s *VisitorService) GetVisitorsByTenant(tenantID uint) ([]models.Visitor, error) {
	var visitors []models.Visitor
	if err := s.DB.Preload("Logs").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&visitors).Error; err != nil {
		return nil, err
	}
	return visitors, nil
}

// 4 GetVisitorsByStatus 按审批状态筛选访客申请
func (s *VisitorService) GetVisitorsByStatus(status models.ApprovalStatus) ([]models.Visitor, error) {
	if !models.ValidApprovalStatus(string(status)) {
		return nil, ErrInvalidStatus
	}
	var visitors []models.Visitor
	if err := s.DB.Preload("Tenant").Preload("Tenant.Room").
		Where("approval_status = ?", status).
		Order("created_at DESC").
		Find(&visitors).Error; err != nil {
		return nil, err
	}
	return visitors, nil
}

// 5 SubmitVisitor 租户登记访客。到访时刻距当前服务器时间不足12小时的申请
// 直接拒绝，恰好12小时按通过处理
func (s *VisitorService) SubmitVisitor(tenantID uint, req SubmitVisitorRequest) (*models.Visitor, error) {
	if req.FullName == "" || req.Purpose == "" || req.ExpectedDate == "" {
		return nil, ErrMissingField
	}

	visitAt, err := parseVisitInstant(req.ExpectedDate, req.ExpectedTime)
	if err != nil {
		return nil, err
	}
	if visitAt.Before(s.Now().Add(AdvanceNotice)) {
		return nil, ErrAdvanceNoticeTooShort
	}

	var tenant models.Tenant
	if err := s.DB.First(&tenant, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	visitor := &models.Visitor{
		TenantID:       tenantID,
		FullName:       req.FullName,
		ContactNumber:  req.ContactNumber,
		Purpose:        req.Purpose,
		ExpectedDate:   req.ExpectedDate,
		ExpectedTime:   req.ExpectedTime,
		ApprovalStatus: models.ApprovalStatusPending,
	}
	if err := s.DB.Create(visitor).Error; err != nil {
		return nil, err
	}
	return visitor, nil
}

// 6 UpdateStatus 管理员变更访客审批状态。重复写入同一状态按幂等成功处理
func (s *VisitorService) UpdateStatus(id uint, status models.ApprovalStatus) (*models.Visitor, error) {
	if !models.ValidApprovalStatus(string(status)) {
		return nil, ErrInvalidStatus
	}

	var visitor models.Visitor
	if err := s.DB.First(&visitor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		return nil, err
	}

	if visitor.ApprovalStatus == status {
		return &visitor, nil
	}

	if err := s.DB.Model(&visitor).
		UpdateColumn("approval_status", status).Error; err != nil {
		return nil, err
	}
	visitor.ApprovalStatus = status
	return &visitor, nil
}

// 7 UpdateVisitorByTenant 租户修改自己的访客申请。仅限待审批状态；
// 访客不存在或不属于该租户时统一返回未找到，不泄露归属信息
func (s *VisitorService) UpdateVisitorByTenant(id uint, tenantID uint, fields VisitorUpdateFields) (*models.Visitor, error) {
	var visitor models.Visitor
	if err := s.DB.Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&visitor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		return nil, err
	}

	if visitor.ApprovalStatus.Terminal() {
		return nil, ErrAlreadyProcessed
	}

	updates := map[string]interface{}{}
	if fields.FullName != nil {
		updates["full_name"] = *fields.FullName
	}
	if fields.ContactNumber != nil {
		updates["contact_number"] = *fields.ContactNumber
	}
	if fields.Purpose != nil {
		updates["purpose"] = *fields.Purpose
	}
	if fields.ExpectedDate != nil {
		updates["expected_date"] = *fields.ExpectedDate
	}
	if fields.ExpectedTime != nil {
		updates["expected_time"] = *fields.ExpectedTime
	}

	if fields.ExpectedDate != nil || fields.ExpectedTime != nil {
		date := visitor.ExpectedDate
		clock := visitor.ExpectedTime
		if fields.ExpectedDate != nil {
			date = *fields.ExpectedDate
		}
		if fields.ExpectedTime != nil {
			clock = *fields.ExpectedTime
		}
		if _, err := parseVisitInstant(date, clock); err != nil {
			return nil, err
		}
	}

	if len(updates) > 0 {
		if err := s.DB.Model(&visitor).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetVisitorByID(id)
}

// 8 DeleteVisitorByTenant 租户撤回自己的访客申请。仅限待审批状态
func (s *VisitorService) DeleteVisitorByTenant(id uint, tenantID uint) error {
	var visitor models.Visitor
	if err := s.DB.Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&visitor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVisitorNotFound
		}
		return err
	}

	if visitor.ApprovalStatus.Terminal() {
		return ErrAlreadyProcessed
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("visitor_id = ?", id).
			Delete(&models.VisitorLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&visitor).Error
	})
}

// 9 DeleteVisitor 管理员删除访客申请，连同其出入记录
func (s *VisitorService) DeleteVisitor(id uint) error {
	var visitor models.Visitor
	if err := s.DB.First(&visitor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVisitorNotFound
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("visitor_id = ?", id).
			Delete(&models.VisitorLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&visitor).Error
	})
}
