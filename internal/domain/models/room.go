package models

// Room 表示宿舍房间信息
type Room struct {
	ID               uint   `gorm:"primaryKey" json:"room_id"`
	RoomNumber       string `gorm:"type:varchar(20);unique;not null" json:"room_number"` // 房间号，如"A-101"
	Building         string `gorm:"type:varchar(50)" json:"building"`                    // 所在楼栋
	Capacity         int    `gorm:"not null" json:"capacity"`                            // 床位容量
	CurrentOccupants int    `gorm:"not null;default:0" json:"current_occupants"`         // 当前入住人数，只能由租户状态变更修改

	// 关联关系
	Tenants []Tenant `gorm:"foreignKey:RoomID" json:"tenants,omitempty"` // 房间内的租户（一对多）
}
