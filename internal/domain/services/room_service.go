package services

import (
	"errors"

	"gorm.io/gorm"

	"dormguard-http-service/internal/domain/models"
	"dormguard-http-service/internal/infrastructure/config"
)

// InterfaceRoomService 定义房间服务接口
type InterfaceRoomService interface {
	GetAllRooms() ([]models.Room, error)
	GetRoomByID(id uint) (*models.Room, error)
	CreateRoom(room *models.Room) error
}

// RoomService 提供房间相关的服务
type RoomService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewRoomService 创建一个新的房间服务
func NewRoomService(db *gorm.DB, cfg *config.Config) InterfaceRoomService {
	return &RoomService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllRooms 获取所有房间
func (s *RoomService) GetAllRooms() ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.Order("building ASC, room_number ASC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// 2 GetRoomByID 根据ID获取房间
func (s *RoomService) GetRoomByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// 3 CreateRoom 创建房间。房间号需唯一，容量必须为正数
func (s *RoomService) CreateRoom(room *models.Room) error {
	if room.RoomNumber == "" || room.Capacity <= 0 {
		return ErrMissingField
	}

	var count int64
	if err := s.DB.Model(&models.Room{}).
		Where("room_number = ?", room.RoomNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExist
	}

	return s.DB.Create(room).Error
}
