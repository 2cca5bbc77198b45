package datastore

import (
	"context"
	"encoding/json"
	"fmt"
)

// mutate 发送写请求并在成功后整体刷新本地副本
func (s *Store) mutate(ctx context.Context, method, path string, body interface{}) error {
	req := s.client.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode())
	}
	if resp.IsError() || (envelope.Code != 0 && envelope.Code != 100000) {
		return fmt.Errorf("%s %s: %s", method, path, envelope.Message)
	}

	return s.RefreshAll(ctx)
}

// VisitorForm 访客申请的写入字段
type VisitorForm struct {
	FullName      string `json:"full_name"`
	ContactNumber string `json:"contact_number,omitempty"`
	Purpose       string `json:"purpose"`
	ExpectedDate  string `json:"expected_date"`
	ExpectedTime  string `json:"expected_time,omitempty"`
}

// TenantForm 租户档案的写入字段
type TenantForm struct {
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	FullName      string `json:"full_name,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
	Email         string `json:"email,omitempty"`
	RoomID        *uint  `json:"room_id,omitempty"`
	MoveInDate    string `json:"move_in_date,omitempty"`
	Status        string `json:"status,omitempty"`
}

// AddVisitor 以当前令牌对应的租户身份登记访客
func (s *Store) AddVisitor(ctx context.Context, form VisitorForm) error {
	return s.mutate(ctx, "POST", "/api/tenant/register-visitor", form)
}

// UpdateVisitor 修改自己的待审批访客申请
func (s *Store) UpdateVisitor(ctx context.Context, visitorID uint, form VisitorForm) error {
	return s.mutate(ctx, "PUT", fmt.Sprintf("/api/tenant/visitors/%d", visitorID), form)
}

// DeleteVisitor 删除访客申请
func (s *Store) DeleteVisitor(ctx context.Context, visitorID uint) error {
	return s.mutate(ctx, "DELETE", fmt.Sprintf("/api/visitors/%d", visitorID), nil)
}

// AddTenant 创建租户档案
func (s *Store) AddTenant(ctx context.Context, form TenantForm) error {
	return s.mutate(ctx, "POST", "/api/admin/create-tenant", form)
}

// UpdateTenant 更新租户档案
func (s *Store) UpdateTenant(ctx context.Context, tenantID uint, form TenantForm) error {
	return s.mutate(ctx, "PUT", fmt.Sprintf("/api/tenants/%d", tenantID), form)
}

// ApproveVisitor 批准访客申请
func (s *Store) ApproveVisitor(ctx context.Context, visitorID uint) error {
	return s.mutate(ctx, "PUT", fmt.Sprintf("/api/admin/approve-visitor/%d", visitorID), nil)
}

// RejectVisitor 拒绝访客申请
func (s *Store) RejectVisitor(ctx context.Context, visitorID uint) error {
	return s.mutate(ctx, "PUT", fmt.Sprintf("/api/admin/reject-visitor/%d", visitorID), nil)
}

// CheckInVisitor 为访客办理签到
func (s *Store) CheckInVisitor(ctx context.Context, visitorID uint, idLeft string) error {
	return s.mutate(ctx, "POST", "/api/visitor-logs/check-in", map[string]interface{}{
		"visitor_id": visitorID,
		"id_left":    idLeft,
	})
}

// CheckOutVisitor 为访客办理签出
func (s *Store) CheckOutVisitor(ctx context.Context, visitorID uint) error {
	return s.mutate(ctx, "POST", "/api/visitor-logs/check-out", map[string]interface{}{
		"visitor_id": visitorID,
	})
}
