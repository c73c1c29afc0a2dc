package user

type Permission string

const (
	// Own shifts
	PermissionClockOwn          Permission = "attendance.clock_own"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAssignmentViewOwn Permission = "assignment.view_own"

	// Team
	PermissionAssignmentCreate   Permission = "assignment.create"
	PermissionAssignmentComplete Permission = "assignment.complete"
	PermissionTeamView           Permission = "team.view"

	// Payroll
	PermissionPayrollView           Permission = "payroll.view"
	PermissionPayrollCalculate      Permission = "payroll.calculate"
	PermissionPaymentSettingsManage Permission = "payroll.manage_settings"

	// Reports
	PermissionReportsView   Permission = "reports.view"
	PermissionDashboardView Permission = "dashboard.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAssignmentCreate,
		PermissionTeamView,
		PermissionPayrollView,
		PermissionPayrollCalculate,
		PermissionPaymentSettingsManage,
		PermissionReportsView,
		PermissionDashboardView,
	},
	RoleSupervisor: {
		PermissionAssignmentCreate,
		PermissionAssignmentComplete,
		PermissionTeamView,
		PermissionPayrollView,
	},
	RoleEmployee: {
		PermissionClockOwn,
		PermissionAttendanceViewOwn,
		PermissionAssignmentViewOwn,
		PermissionPayrollView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
