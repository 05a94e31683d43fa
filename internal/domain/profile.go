package domain

// Profile is the display identity of one author, keyed by user ID in the
// profile directory embedded into the document. JSON field names match
// what the client-side component runtime expects.
type Profile struct {
	Author    string `json:"author"`
	Avatar    string `json:"avatar,omitempty"`
	RoleColor string `json:"roleColor,omitempty"`
	RoleIcon  string `json:"roleIcon,omitempty"`
	RoleName  string `json:"roleName,omitempty"`
	Bot       bool   `json:"bot,omitempty"`
	Verified  bool   `json:"verified,omitempty"`
}
