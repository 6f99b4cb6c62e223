package converter

import "userdesk/internal/entity"

// UserFromInput builds a full record from an input and an id chosen by the caller.
func UserFromInput(id int64, in *entity.UserInput) entity.User {
	if in == nil {
		return entity.User{ID: id}
	}
	return entity.User{
		ID:           id,
		Name:         in.Name,
		Username:     in.Username,
		Department:   in.Department,
		Position:     in.Position,
		PhoneNumber:  in.PhoneNumber,
		BusinessDate: in.BusinessDate,
		IsAdmin:      in.IsAdmin,
	}
}

// UserToInput strips the id from a record, e.g. to pre-fill an edit.
func UserToInput(u *entity.User) entity.UserInput {
	if u == nil {
		return entity.UserInput{}
	}
	return entity.UserInput{
		Name:         u.Name,
		Username:     u.Username,
		Department:   u.Department,
		Position:     u.Position,
		PhoneNumber:  u.PhoneNumber,
		BusinessDate: u.BusinessDate,
		IsAdmin:      u.IsAdmin,
	}
}

// CloneUsers copies a slice of records.
func CloneUsers(users []entity.User) []entity.User {
	out := make([]entity.User, len(users))
	copy(out, users)
	return out
}
