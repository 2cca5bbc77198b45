package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"dormguard-http-service/internal/domain/models"
	"dormguard-http-service/internal/infrastructure/config"
)

// InterfaceTenantService 定义租户服务接口
type InterfaceTenantService interface {
	GetAllTenants(page int, pageSize int) ([]models.Tenant, int64, error)
	GetTenantByID(id uint) (*models.Tenant, error)
	RegisterTenant(tenant *models.Tenant) error
	UpdateTenant(id uint, fields TenantUpdateFields) (*models.Tenant, error)
	SetTenantStatus(id uint, newStatus models.TenantStatus) error
	DeleteTenant(id uint) error
}

// TenantUpdateFields 租户可修改字段的封闭集合。tenant_id、username、password
// 需要专门流程，不在此列；房间调换同理，避免绕过入住人数的记账
type TenantUpdateFields struct {
	FullName               *string
	ContactNumber          *string
	Email                  *string
	MoveInDate             *time.Time
	Status                 *models.TenantStatus
	EmergencyContactName   *string
	EmergencyContactNumber *string
}

// TenantService 提供租户与房间台账相关的服务
type TenantService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewTenantService 创建一个新的租户服务
func NewTenantService(db *gorm.DB, cfg *config.Config) InterfaceTenantService {
	return &TenantService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllTenants 获取所有租户（含房间信息）
func (s *TenantService) GetAllTenants(page int, pageSize int) ([]models.Tenant, int64, error) {
	var tenants []models.Tenant
	var total int64
	if err := s.DB.Model(&models.Tenant{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.DB.Preload("Room").
		Order("full_name ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&tenants).Error; err != nil {
		return nil, 0, err
	}
	return tenants, total, nil
}

// 2 GetTenantByID 根据ID获取租户（含房间信息）
func (s *TenantService) GetTenantByID(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.DB.Preload("Room").First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// 3 RegisterTenant 注册新租户。租户写入和房间入住人数递增必须在同一事务中
// 全部生效或全部回滚；递增使用条件更新，满员判定由数据库串行化，避免并发
// 注册时的丢失更新
func (s *TenantService) RegisterTenant(tenant *models.Tenant) error {
	if tenant.Username == "" || tenant.Password == "" || tenant.FullName == "" ||
		tenant.Email == "" || tenant.RoomID == nil {
		return ErrMissingField
	}

	// 验证用户名和邮箱唯一性
	var count int64
	if err := s.DB.Model(&models.Tenant{}).
		Where("username = ? OR email = ?", tenant.Username, tenant.Email).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExist
	}

	// 验证房间存在
	var room models.Room
	if err := s.DB.First(&room, *tenant.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	if tenant.Status == "" {
		tenant.Status = models.TenantStatusActive
	}
	if tenant.MoveInDate.IsZero() {
		tenant.MoveInDate = time.Now()
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		// 条件递增：只有未满员的房间才会命中该更新
		result := tx.Model(&models.Room{}).
			Where("id = ? AND current_occupants < capacity", *tenant.RoomID).
			UpdateColumn("current_occupants", gorm.Expr("current_occupants + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRoomFull
		}

		return tx.Create(tenant).Error
	})
}

// occupancyDelta 返回状态变更对房间入住人数的影响。仅 Active 与 Moved Out
// 之间的转换记账；涉及 Suspended 的转换不改变入住人数
func occupancyDelta(current, next models.TenantStatus) int {
	switch {
	case current == models.TenantStatusActive && next == models.TenantStatusMovedOut:
		return -1
	case current == models.TenantStatusMovedOut && next == models.TenantStatusActive:
		return +1
	default:
		return 0
	}
}

// applyStatusTransition 在事务内应用状态转换及其入住人数副作用
func applyStatusTransition(tx *gorm.DB, tenant *models.Tenant, newStatus models.TenantStatus) error {
	if newStatus == tenant.Status {
		return nil // 同状态转换为无操作
	}

	if tenant.RoomID != nil {
		switch occupancyDelta(tenant.Status, newStatus) {
		case -1:
			if err := tx.Model(&models.Room{}).
				Where("id = ?", *tenant.RoomID).
				UpdateColumn("current_occupants", gorm.Expr("current_occupants - 1")).Error; err != nil {
				return err
			}
		case +1:
			result := tx.Model(&models.Room{}).
				Where("id = ? AND current_occupants < capacity", *tenant.RoomID).
				UpdateColumn("current_occupants", gorm.Expr("current_occupants + 1"))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrRoomFull
			}
		}
	}

	return tx.Model(tenant).UpdateColumn("status", newStatus).Error
}

// 4 UpdateTenant 更新租户信息。若包含状态变更，则按转换表处理入住人数，
// 并与字段写入在同一事务中提交
func (s *TenantService) UpdateTenant(id uint, fields TenantUpdateFields) (*models.Tenant, error) {
	// 如果更新邮箱，需要检查唯一性
	if fields.Email != nil {
		var count int64
		if err := s.DB.Model(&models.Tenant{}).
			Where("email = ? AND id != ?", *fields.Email, id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUserAlreadyExist
		}
	}
	if fields.Status != nil && !models.ValidTenantStatus(string(*fields.Status)) {
		return nil, ErrInvalidStatus
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var tenant models.Tenant
		if err := tx.First(&tenant, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTenantNotFound
			}
			return err
		}

		updates := map[string]interface{}{}
		if fields.FullName != nil {
			updates["full_name"] = *fields.FullName
		}
		if fields.ContactNumber != nil {
			updates["contact_number"] = *fields.ContactNumber
		}
		if fields.Email != nil {
			updates["email"] = *fields.Email
		}
		if fields.MoveInDate != nil {
			updates["move_in_date"] = *fields.MoveInDate
		}
		if fields.EmergencyContactName != nil {
			updates["emergency_contact_name"] = *fields.EmergencyContactName
		}
		if fields.EmergencyContactNumber != nil {
			updates["emergency_contact_number"] = *fields.EmergencyContactNumber
		}

		if len(updates) > 0 {
			if err := tx.Model(&tenant).Updates(updates).Error; err != nil {
				return err
			}
		}

		if fields.Status != nil {
			if err := applyStatusTransition(tx, &tenant, *fields.Status); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTenantByID(id)
}

// 5 SetTenantStatus 只变更租户状态（含入住人数记账）
func (s *TenantService) SetTenantStatus(id uint, newStatus models.TenantStatus) error {
	if !models.ValidTenantStatus(string(newStatus)) {
		return ErrInvalidStatus
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var tenant models.Tenant
		if err := tx.First(&tenant, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTenantNotFound
			}
			return err
		}
		return applyStatusTransition(tx, &tenant, newStatus)
	})
}

// 6 DeleteTenant 删除租户。回滚房间入住人数并级联删除其访客申请和出入记录，
// 整体在一个事务中完成
func (s *TenantService) DeleteTenant(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var tenant models.Tenant
		if err := tx.First(&tenant, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTenantNotFound
			}
			return err
		}

		// 仍占用床位的租户需要回滚入住人数
		if tenant.RoomID != nil && tenant.Status == models.TenantStatusActive {
			if err := tx.Model(&models.Room{}).
				Where("id = ?", *tenant.RoomID).
				UpdateColumn("current_occupants", gorm.Expr("current_occupants - 1")).Error; err != nil {
				return err
			}
		}

		// 级联删除访客出入记录和访客申请
		var visitorIDs []uint
		if err := tx.Model(&models.Visitor{}).
			Where("tenant_id = ?", id).
			Pluck("id", &visitorIDs).Error; err != nil {
			return err
		}
		if len(visitorIDs) > 0 {
			if err := tx.Where("visitor_id IN ?", visitorIDs).
				Delete(&models.VisitorLog{}).Error; err != nil {
				return err
			}
			if err := tx.Where("tenant_id = ?", id).
				Delete(&models.Visitor{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&tenant).Error
	})
}
