package rbac

// RolePermissions is the default policy. Grants ending in "*" match by prefix.
var RolePermissions = map[Role][]string{
	RoleStudent: {
		"tests:view",
		"session:create",
		"session:save",
		"session:submit",
		"session:view-own",
		"bands:view",
	},
	RoleTeacher: {
		"tests:*",
		"session:create",
		"session:save",
		"session:submit",
		"session:view-all",
		"bands:view",
	},
	RoleAdmin: {"*"},
}
