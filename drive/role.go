package drive

import "fmt"

type Role string

const (
	RoleOwner         Role = "owner"
	RoleOrganizer     Role = "organizer"
	RoleFileOrganizer Role = "fileOrganizer"
	RoleWriter        Role = "writer"
	RoleCommenter     Role = "commenter"
	RoleReader        Role = "reader"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleOwner, RoleOrganizer, RoleFileOrganizer, RoleWriter, RoleCommenter, RoleReader:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}
