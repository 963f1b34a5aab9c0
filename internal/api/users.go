package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/wolfeidau/storefront/internal/client"
	"github.com/wolfeidau/storefront/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Users is the admin user management service.
type Users struct {
	c Doer
}

// List returns one page of users filtered by q.
func (u *Users) List(ctx context.Context, q models.UserQuery) (*models.Page[models.UserSummary], error) {
	if q.PageNumber < 1 {
		q.PageNumber = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}

	params := url.Values{
		"pageNumber": {strconv.Itoa(q.PageNumber)},
		"pageSize":   {strconv.Itoa(q.PageSize)},
	}
	if term := strings.TrimSpace(q.SearchTerm); term != "" {
		params.Set("searchTerm", term)
	}
	if q.Role != "" {
		role, err := canonicalRole(q.Role)
		if err != nil {
			return nil, err
		}
		params.Set("role", role)
	}

	var out models.Page[models.UserSummary]
	if err := u.c.Get(ctx, "/Users", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *Users) Get(ctx context.Context, id int) (*models.UserDetail, error) {
	return getOne[models.UserDetail](ctx, u.c, "/Users/"+itoa(id))
}

func (u *Users) Create(ctx context.Context, in models.CreateUserRequest) error {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return client.NewError(client.KindValidation, "email and password are required")
	}
	role, err := canonicalRole(in.Role)
	if err != nil {
		return err
	}
	in.Role = role
	return u.c.Post(ctx, "/Users", in, nil)
}

func (u *Users) Update(ctx context.Context, id int, in models.UpdateUserRequest) error {
	role, err := canonicalRole(in.Role)
	if err != nil {
		return err
	}
	in.Role = role
	return u.c.Put(ctx, "/Users/"+itoa(id), in, nil)
}

func (u *Users) Delete(ctx context.Context, id int) error {
	return u.c.Delete(ctx, "/Users/"+itoa(id), nil)
}

func (u *Users) ChangeRole(ctx context.Context, id int, role string) error {
	role, err := canonicalRole(role)
	if err != nil {
		return err
	}
	return u.c.Patch(ctx, "/Users/"+itoa(id)+"/role", map[string]string{"role": role}, nil)
}

// SetActive enables or disables an account.
func (u *Users) SetActive(ctx context.Context, id int, active bool) error {
	return u.c.Patch(ctx, "/Users/"+itoa(id)+"/status", map[string]bool{"isActive": active}, nil)
}

func (u *Users) ResetPassword(ctx context.Context, id int, newPassword string) error {
	if len(newPassword) < 6 {
		return client.NewError(client.KindValidation, "password must be at least 6 characters")
	}
	return u.c.Post(ctx, "/Users/"+itoa(id)+"/reset-password", map[string]string{"newPassword": newPassword}, nil)
}

func canonicalRole(role string) (string, error) {
	switch {
	case strings.EqualFold(role, models.RoleAdmin):
		return models.RoleAdmin, nil
	case strings.EqualFold(role, models.RoleCustomer):
		return models.RoleCustomer, nil
	}
	return "", client.NewError(client.KindValidation, "role must be Admin or Customer")
}

// Admin serves the back-office dashboard.
type Admin struct {
	c Doer
}

func (a *Admin) Stats(ctx context.Context) (models.DashboardStats, error) {
	var out models.DashboardStats
	if err := a.c.Get(ctx, "/Admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Admin) RecentOrders(ctx context.Context) ([]models.AdminOrder, error) {
	return getList[models.AdminOrder](ctx, a.c, "/Admin/orders/recent", nil)
}

func (a *Admin) TopProducts(ctx context.Context) ([]models.TopProduct, error) {
	return getList[models.TopProduct](ctx, a.c, "/Admin/products/top", nil)
}
