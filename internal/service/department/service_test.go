package department

import (
	"context"
	"testing"

	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/department"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) (department.DepartmentService, *memory.Store, context.Context) {
	t.Helper()
	store := memory.NewStore()
	adminCtx := auth.WithPrincipal(context.Background(), auth.Principal{ProfileID: "admin-1", Role: profile.RoleAdmin})
	return NewDepartmentService(store.Departments(), store.Profiles()), store, adminCtx
}

func TestDepartmentService_Create(t *testing.T) {
	service, store, ctx := setupTest(t)

	manager, err := store.Profiles().Create(context.Background(), profile.Profile{Email: "m@dag.test", FullName: "Manager", Role: profile.RoleHR, IsActive: true})
	require.NoError(t, err)

	created, err := service.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering", ManagerID: &manager.ID})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.ManagerName)
	assert.Equal(t, "Manager", *created.ManagerName)

	_, err = service.Create(ctx, department.CreateDepartmentRequest{Name: "engineering"})
	assert.ErrorIs(t, err, department.ErrDepartmentNameExists)

	missing := "01890a5d-ac96-774b-bcce-b302099a8057"
	_, err = service.Create(ctx, department.CreateDepartmentRequest{Name: "Sales", ManagerID: &missing})
	assert.ErrorIs(t, err, department.ErrManagerNotFound)
}

func TestDepartmentService_DeactivateHidesFromList(t *testing.T) {
	service, _, ctx := setupTest(t)

	ops, err := service.Create(ctx, department.CreateDepartmentRequest{Name: "Operations"})
	require.NoError(t, err)
	_, err = service.Create(ctx, department.CreateDepartmentRequest{Name: "Finance"})
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(ctx, ops.ID))

	active, err := service.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Finance", active[0].Name)

	all, err := service.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Employees never see inactive departments
	employeeCtx := auth.WithPrincipal(context.Background(), auth.Principal{ProfileID: "e-1", Role: profile.RoleEmployee})
	visible, err := service.List(employeeCtx, true)
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}

func TestDepartmentService_UpdateRequiresAdmin(t *testing.T) {
	service, _, ctx := setupTest(t)

	d, err := service.Create(ctx, department.CreateDepartmentRequest{Name: "Legal"})
	require.NoError(t, err)

	hrCtx := auth.WithPrincipal(context.Background(), auth.Principal{ProfileID: "hr-1", Role: profile.RoleHR})
	name := "Compliance"
	_, err = service.Update(hrCtx, department.UpdateDepartmentRequest{ID: d.ID, Name: &name})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	updated, err := service.Update(ctx, department.UpdateDepartmentRequest{ID: d.ID, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Compliance", updated.Name)
}
