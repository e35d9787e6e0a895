package permissions

// PermissionDefinition describes a single, specific permission
type PermissionDefinition struct {
	Key         string `json:"key"`         // unique key, e.g., "movie.create"
	Name        string `json:"name"`        // friendly name, e.g., "Create Movie"
	Description string `json:"description"` // detailed description of what the permission allows
}

// PermissionGroupDefinition groups related permissions
type PermissionGroupDefinition struct {
	Key         string                 `json:"key"`         // unique key for the group, e.g., "movie"
	Name        string                 `json:"name"`        // friendly name for the group, e.g., "Movie Management"
	Description string                 `json:"description"` // detailed description of the permission group
	Permissions []PermissionDefinition `json:"permissions"` // list of permissions within this group
}

// DefinedPermissionGroups holds all statically defined permission groups and their permissions
var DefinedPermissionGroups = []PermissionGroupDefinition{
	{
		Key:         "movie",
		Name:        "Movie Management",
		Description: "Permissions related to managing the movie catalog.",
		Permissions: []PermissionDefinition{
			{
				Key:         "movie.create",
				Name:        "Create Movie",
				Description: "Allows adding new movies to the catalog.",
			},
			{
				Key:         "movie.edit",
				Name:        "Edit Movie",
				Description: "Allows editing movie details (name, director, release date, description).",
			},
			{
				Key:         "movie.delete",
				Name:        "Delete Movie",
				Description: "Allows deleting movies (their reviews are removed with them).",
			},
		},
	},
	{
		Key:         "director",
		Name:        "Director Management",
		Description: "Permissions related to managing directors.",
		Permissions: []PermissionDefinition{
			{
				Key:         "director.create",
				Name:        "Create Director",
				Description: "Allows adding new directors.",
			},
			{
				Key:         "director.edit",
				Name:        "Edit Director",
				Description: "Allows editing existing directors.",
			},
			{
				Key:         "director.delete",
				Name:        "Delete Director",
				Description: "Allows deleting directors (movies keep existing with no director).",
			},
		},
	},
	{
		Key:         "review",
		Name:        "Review Administration",
		Description: "Permissions related to administering other users' reviews.",
		Permissions: []PermissionDefinition{
			{
				Key:         "review.list.all",
				Name:        "List All Reviews",
				Description: "Allows listing every review in the system, not just one's own.",
			},
			{
				Key:         "review.manage",
				Name:        "Manage Any Review",
				Description: "Allows editing and deleting reviews owned by other users.",
			},
		},
	},
	{
		Key:         "user",
		Name:        "User Management",
		Description: "Permissions related to managing user accounts.",
		Permissions: []PermissionDefinition{
			{
				Key:         "user.create",
				Name:        "Create User",
				Description: "Allows creating new user accounts.",
			},
			{
				Key:         "user.edit",
				Name:        "Edit User",
				Description: "Allows editing existing user accounts (e.g., username, groups, direct permissions).",
			},
			{
				Key:         "user.delete",
				Name:        "Delete User",
				Description: "Allows deleting user accounts (their reviews are removed with them).",
			},
			{
				Key:         "user.list",
				Name:        "List Users",
				Description: "Allows viewing a list of user accounts.",
			},
			{
				Key:         "user.view",
				Name:        "View User Details",
				Description: "Allows viewing detailed information of a specific user.",
			},
		},
	},
	{
		Key:         "group",
		Name:        "Group Management",
		Description: "Permissions related to managing groups and their assigned permissions.",
		Permissions: []PermissionDefinition{
			{
				Key:         "group.create",
				Name:        "Create Group",
				Description: "Allows creating new groups.",
			},
			{
				Key:         "group.edit",
				Name:        "Edit Group",
				Description: "Allows editing existing groups (e.g., name, assigned permissions).",
			},
			{
				Key:         "group.delete",
				Name:        "Delete Group",
				Description: "Allows deleting groups.",
			},
			{
				Key:         "group.list",
				Name:        "List Groups",
				Description: "Allows viewing a list of groups.",
			},
			{
				Key:         "group.view",
				Name:        "View Group Details",
				Description: "Allows viewing detailed information of a specific group.",
			},
			{
				Key:         "group.edit.users",
				Name:        "Add/Remove Users from Group",
				Description: "Allows adding users to and removing users from a specific group.",
			},
		},
	},
	{
		Key:         "invite",
		Name:        "Invite Code Management",
		Description: "Permissions related to managing user registration invite codes.",
		Permissions: []PermissionDefinition{
			{
				Key:         "invite.create",
				Name:        "Create Invite Codes",
				Description: "Allows generating new invite codes.",
			},
			{
				Key:         "invite.list",
				Name:        "List Invite Codes",
				Description: "Allows viewing all existing invite codes.",
			},
			{
				Key:         "invite.edit",
				Name:        "Edit Invite Codes",
				Description: "Allows modifying existing invite codes (e.g., expiry, max uses, active status).",
			},
			{
				Key:         "invite.delete",
				Name:        "Delete Invite Codes",
				Description: "Allows deleting invite codes.",
			},
		},
	},
}

var (
	allPermissionKeysMap map[string]PermissionDefinition
	allPermissionKeys    []string
)

func init() {
	allPermissionKeysMap = make(map[string]PermissionDefinition)
	for _, group := range DefinedPermissionGroups {
		for _, perm := range group.Permissions {
			allPermissionKeysMap[perm.Key] = perm
			allPermissionKeys = append(allPermissionKeys, perm.Key)
		}
	}
}

// GetAllPermissionDefinitions returns a map of all defined permissions, keyed by their unique string key
func GetAllPermissionDefinitions() map[string]PermissionDefinition {
	return allPermissionKeysMap
}

// GetAllPermissionKeys returns a slice of all unique permission string keys
func GetAllPermissionKeys() []string {
	// return a copy to prevent modification of the internal slice
	keys := make([]string, len(allPermissionKeys))
	copy(keys, allPermissionKeys)
	return keys
}

// IsValidPermissionKey checks if a given permission key is defined
func IsValidPermissionKey(key string) bool {
	_, ok := allPermissionKeysMap[key]
	return ok
}

// GetPermissionDefinition retrieves a specific permission definition by its key.
// Returns the definition and true if found, otherwise an empty definition and false.
func GetPermissionDefinition(key string) (PermissionDefinition, bool) {
	def, ok := allPermissionKeysMap[key]
	return def, ok
}
