package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/wolfeidau/storefront/internal/guard"
	"github.com/wolfeidau/storefront/internal/models"
)

// AdminCmd is the back-office.
type AdminCmd struct {
	Stats        AdminStatsCmd        `cmd:"" help:"Show dashboard statistics"`
	RecentOrders AdminRecentOrdersCmd `cmd:"" name:"recent-orders" help:"Show the latest orders"`
	TopProducts  AdminTopProductsCmd  `cmd:"" name:"top-products" help:"Show best selling products"`
	Users        AdminUsersCmd        `cmd:"" help:"Manage users"`
	Orders       AdminOrdersCmd       `cmd:"" help:"Manage orders"`
	Products     AdminProductsCmd     `cmd:"" help:"Manage products"`
	Categories   AdminCategoriesCmd   `cmd:"" help:"Manage categories"`
}

func (g *Globals) openAdmin(ctx context.Context) (*App, error) {
	return g.open(ctx, guard.RequireAdmin, "/admin")
}

// printMap prints a loosely typed object with sorted keys.
func printMap(globals *Globals, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := newTable(globals.out(), "METRIC", "VALUE")
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%v\n", k, m[k])
	}
	w.Flush()
}

type AdminStatsCmd struct{}

func (c *AdminStatsCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	stats, err := app.API.Admin.Stats(ctx)
	if err != nil {
		return err
	}

	printMap(globals, stats)

	return nil
}

type AdminRecentOrdersCmd struct{}

func (c *AdminRecentOrdersCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	recent, err := app.API.Admin.RecentOrders(ctx)
	if err != nil {
		return err
	}

	w := newTable(globals.out(), "ORDER", "CUSTOMER", "STATUS", "TOTAL")
	for _, o := range recent {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\n",
			firstValue(o, "orderNumber", "orderId"),
			firstValue(o, "customerName", "userEmail", "userId"),
			firstValue(o, "orderStatus", "status"),
			firstValue(o, "totalAmount", "total"))
	}

	return w.Flush()
}

type AdminTopProductsCmd struct{}

func (c *AdminTopProductsCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	top, err := app.API.Admin.TopProducts(ctx)
	if err != nil {
		return err
	}

	for i, p := range top {
		fmt.Fprintf(globals.out(), "%d. %v\n", i+1, firstValue(p, "productName", "name"))
	}

	return nil
}

func firstValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return ""
}

// AdminUsersCmd manages accounts.
type AdminUsersCmd struct {
	List          AdminUsersListCmd          `cmd:"" default:"withargs" help:"List users"`
	Show          AdminUsersShowCmd          `cmd:"" help:"Show a user"`
	Create        AdminUsersCreateCmd        `cmd:"" help:"Create a user"`
	Delete        AdminUsersDeleteCmd        `cmd:"" help:"Delete a user"`
	Role          AdminUsersRoleCmd          `cmd:"" help:"Change a user's role"`
	Update        AdminUsersUpdateCmd        `cmd:"" help:"Update a user"`
	Activate      AdminUsersActivateCmd      `cmd:"" help:"Enable a user"`
	Deactivate    AdminUsersDeactivateCmd    `cmd:"" help:"Disable a user"`
	ResetPassword AdminUsersResetPasswordCmd `cmd:"" name:"reset-password" help:"Set a new password for a user"`
}

type AdminUsersListCmd struct {
	Page     int    `help:"Page number" default:"1"`
	PageSize int    `help:"Users per page" default:"10"`
	Search   string `help:"Search term"`
	Role     string `help:"Filter by role (Admin or Customer)"`
}

func (c *AdminUsersListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	page, err := app.API.Users.List(ctx, models.UserQuery{
		PageNumber: c.Page,
		PageSize:   c.PageSize,
		SearchTerm: c.Search,
		Role:       c.Role,
	})
	if err != nil {
		return err
	}

	w := newTable(globals.out(), "ID", "EMAIL", "NAME", "ROLE", "ACTIVE")
	for _, u := range page.Data {
		fmt.Fprintf(w, "%d\t%s\t%s %s\t%s\t%s\n", u.UserID, u.Email, u.FirstName, u.LastName, u.Role, yesNo(u.IsActive))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "\nPage %d of %d (%d users)\n", page.PageNumber, page.TotalPages, page.TotalCount)

	return nil
}

type AdminUsersShowCmd struct {
	ID int `arg:"" help:"User id"`
}

func (c *AdminUsersShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	u, err := app.API.Users.Get(ctx, c.ID)
	if err != nil {
		return err
	}

	out := globals.out()
	fmt.Fprintf(out, "ID:          %d\n", u.UserID)
	fmt.Fprintf(out, "Email:       %s\n", u.Email)
	fmt.Fprintf(out, "Name:        %s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(out, "Role:        %s\n", u.Role)
	fmt.Fprintf(out, "Active:      %s\n", yesNo(u.IsActive))
	if u.PhoneNumber != "" {
		fmt.Fprintf(out, "Phone:       %s\n", u.PhoneNumber)
	}
	fmt.Fprintf(out, "Created:     %s\n", u.CreatedAt)
	if u.LastLogin != "" {
		fmt.Fprintf(out, "Last login:  %s\n", u.LastLogin)
	}

	return nil
}

type AdminUsersCreateCmd struct {
	Email     string `arg:"" help:"Email"`
	FirstName string `help:"First name" required:""`
	LastName  string `help:"Last name" required:""`
	Phone     string `help:"Phone number"`
	Role      string `help:"Role" enum:"Admin,Customer" default:"Customer"`
	Password  string `help:"Initial password, prompted for when empty"`
}

func (c *AdminUsersCreateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	password, err := readSecret(globals, "Password", c.Password)
	if err != nil {
		return err
	}

	if err := app.API.Users.Create(ctx, models.CreateUserRequest{
		Email:       c.Email,
		Password:    password,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PhoneNumber: c.Phone,
		Role:        c.Role,
	}); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "User %s created\n", c.Email)

	return nil
}

type AdminUsersDeleteCmd struct {
	ID int `arg:"" help:"User id"`
}

func (c *AdminUsersDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	if err := app.API.Users.Delete(ctx, c.ID); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "User %d deleted\n", c.ID)

	return nil
}

type AdminUsersRoleCmd struct {
	ID   int    `arg:"" help:"User id"`
	Role string `arg:"" help:"New role" enum:"Admin,Customer"`
}

func (c *AdminUsersRoleCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	if err := app.API.Users.ChangeRole(ctx, c.ID, c.Role); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "User %d is now %s\n", c.ID, c.Role)

	return nil
}

type AdminUsersUpdateCmd struct {
	ID        int    `arg:"" help:"User id"`
	FirstName string `help:"First name" required:""`
	LastName  string `help:"Last name" required:""`
	Phone     string `help:"Phone number"`
	Role      string `help:"Role" enum:"Admin,Customer" default:"Customer"`
	Inactive  bool   `help:"Disable the account"`
}

func (c *AdminUsersUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	if err := app.API.Users.Update(ctx, c.ID, models.UpdateUserRequest{
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PhoneNumber: c.Phone,
		Role:        c.Role,
		IsActive:    !c.Inactive,
	}); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "User %d updated\n", c.ID)

	return nil
}

type AdminUsersActivateCmd struct {
	ID int `arg:"" help:"User id"`
}

func (c *AdminUsersActivateCmd) Run(ctx context.Context, globals *Globals) error {
	return setUserActive(ctx, globals, c.ID, true)
}

type AdminUsersDeactivateCmd struct {
	ID int `arg:"" help:"User id"`
}

func (c *AdminUsersDeactivateCmd) Run(ctx context.Context, globals *Globals) error {
	return setUserActive(ctx, globals, c.ID, false)
}

func setUserActive(ctx context.Context, globals *Globals, id int, active bool) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	if err := app.API.Users.SetActive(ctx, id, active); err != nil {
		return err
	}

	state := "disabled"
	if active {
		state = "enabled"
	}
	fmt.Fprintf(globals.out(), "User %d %s\n", id, state)

	return nil
}

type AdminUsersResetPasswordCmd struct {
	ID       int    `arg:"" help:"User id"`
	Password string `help:"New password, prompted for when empty"`
}

func (c *AdminUsersResetPasswordCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	password, err := readSecret(globals, "New password", c.Password)
	if err != nil {
		return err
	}

	if err := app.API.Users.ResetPassword(ctx, c.ID, password); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Password reset for user %d\n", c.ID)

	return nil
}

// AdminOrdersCmd covers every customer's orders.
type AdminOrdersCmd struct {
	All     AdminOrdersAllCmd     `cmd:"" default:"withargs" help:"List all orders"`
	Pending AdminOrdersPendingCmd `cmd:"" help:"List pending orders"`
	Stats   AdminOrdersStatsCmd   `cmd:"" help:"Show order statistics"`
	Status  AdminOrdersStatusCmd  `cmd:"" help:"Move an order to a new status"`
}

type AdminOrdersAllCmd struct{}

func (c *AdminOrdersAllCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	orders, err := app.API.Orders.All(ctx)
	if err != nil {
		return err
	}

	return printOrders(globals, orders)
}

type AdminOrdersPendingCmd struct{}

func (c *AdminOrdersPendingCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	orders, err := app.API.Orders.Pending(ctx)
	if err != nil {
		return err
	}

	return printOrders(globals, orders)
}

type AdminOrdersStatsCmd struct{}

func (c *AdminOrdersStatsCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	stats, err := app.API.Orders.Statistics(ctx)
	if err != nil {
		return err
	}

	printMap(globals, stats)

	return nil
}

type AdminOrdersStatusCmd struct {
	ID     int    `arg:"" help:"Order id"`
	Status string `arg:"" help:"New status (Pending, Processing, Shipped, Delivered, Cancelled)"`
}

func (c *AdminOrdersStatusCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	if err := app.API.Orders.UpdateStatus(ctx, c.ID, c.Status); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Order %d updated\n", c.ID)

	return nil
}

// AdminProductsCmd edits the catalog.
type AdminProductsCmd struct {
	Create AdminProductsCreateCmd `cmd:"" help:"Create a product"`
	Update AdminProductsUpdateCmd `cmd:"" help:"Update a product"`
	Delete AdminProductsDeleteCmd `cmd:"" help:"Delete a product"`
}

type ProductFlags struct {
	Name             string   `help:"Product name" required:""`
	Slug             string   `help:"URL slug" required:""`
	Category         int      `help:"Category id"`
	Description      string   `help:"Long description"`
	ShortDescription string   `help:"Short description"`
	Price            float64  `help:"Price" required:""`
	CompareAt        *float64 `help:"Compare-at price"`
	Stock            int      `help:"Units in stock"`
	SKU              string   `help:"Stock keeping unit" name:"sku"`
	Origin           string   `help:"Origin"`
	Inactive         bool     `help:"Hide from the storefront"`
	Featured         bool     `help:"Feature on the home page"`
}

func (f ProductFlags) input() models.ProductInput {
	return models.ProductInput{
		CategoryID:       f.Category,
		Name:             f.Name,
		Slug:             f.Slug,
		Description:      f.Description,
		ShortDescription: f.ShortDescription,
		Price:            f.Price,
		CompareAtPrice:   f.CompareAt,
		StockQuantity:    f.Stock,
		SKU:              f.SKU,
		Origin:           f.Origin,
		IsActive:         !f.Inactive,
		IsFeatured:       f.Featured,
	}
}

type AdminProductsCreateCmd struct {
	ProductFlags `embed:""`
}

func (c *AdminProductsCreateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	p, err := app.API.Products.Create(ctx, c.input())
	if err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Product %d created\n", p.ProductID)

	return nil
}

type AdminProductsUpdateCmd struct {
	ID           int `arg:"" help:"Product id"`
	ProductFlags `embed:""`
}

func (c *AdminProductsUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	if err := app.API.Products.Update(ctx, c.ID, c.input()); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Product %d updated\n", c.ID)

	return nil
}

type AdminProductsDeleteCmd struct {
	ID int `arg:"" help:"Product id"`
}

func (c *AdminProductsDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	if err := app.API.Products.Delete(ctx, c.ID); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Product %d deleted\n", c.ID)

	return nil
}

type AdminCategoriesCmd struct {
	Create AdminCategoriesCreateCmd `cmd:"" help:"Create a category"`
	Update AdminCategoriesUpdateCmd `cmd:"" help:"Update a category"`
	Delete AdminCategoriesDeleteCmd `cmd:"" help:"Delete a category"`
}

type CategoryFlags struct {
	Name        string `help:"Category name" required:""`
	Slug        string `help:"URL slug" required:""`
	Description string `help:"Description"`
	Image       string `help:"Image URL"`
	Order       int    `help:"Display order"`
	Inactive    bool   `help:"Hide from the storefront"`
}

func (f CategoryFlags) input() models.CategoryInput {
	return models.CategoryInput{
		Name:         f.Name,
		Slug:         f.Slug,
		Description:  f.Description,
		ImageURL:     f.Image,
		DisplayOrder: f.Order,
		IsActive:     !f.Inactive,
	}
}

type AdminCategoriesCreateCmd struct {
	CategoryFlags `embed:""`
}

func (c *AdminCategoriesCreateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	cat, err := app.API.Categories.Create(ctx, c.input())
	if err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Category %d created\n", cat.CategoryID)

	return nil
}

type AdminCategoriesUpdateCmd struct {
	ID            int `arg:"" help:"Category id"`
	CategoryFlags `embed:""`
}

func (c *AdminCategoriesUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	if err := app.API.Categories.Update(ctx, c.ID, c.input()); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Category %d updated\n", c.ID)

	return nil
}

type AdminCategoriesDeleteCmd struct {
	ID int `arg:"" help:"Category id"`
}

func (c *AdminCategoriesDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.openAdmin(ctx)
	if err != nil {
		return err
	}

	if err := app.API.Categories.Delete(ctx, c.ID); err != nil {
		return err
	}

	fmt.Fprintf(globals.out(), "Category %d deleted\n", c.ID)

	return nil
}
