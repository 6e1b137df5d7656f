package rbac

// Simple default policy. Organizer rights are per-hackathon and resolved
// against hackathons.organizer_id, not through this table.
var RolePermissions = map[string][]string{
	"participant": {
		"criteria:view",
		"project:view",
	},
	"judge": {
		"criteria:view",
		"project:view",
		"score:submit",
		"assignment:view-own",
	},
	"moderator": {
		"criteria:view",
		"criteria:view-inactive",
		"project:view",
		"score:submit",
		"score:submit-any",
		"assignment:view-own",
		"assignment:view-any",
	},
	"admin": {
		"*", // everything
	},
}
