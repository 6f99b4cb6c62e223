package entity

// User 是用户集合中的一条记录。字段顺序即持久化文档中的键顺序。
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Department   string `json:"department"`
	Position     string `json:"position"`
	PhoneNumber  string `json:"phoneNumber"`
	BusinessDate string `json:"businessDate"`
	IsAdmin      bool   `json:"isAdmin"`
}

// UserInput carries every user field except the id, which is always assigned
// by the owner of the collection.
type UserInput struct {
	Name         string `json:"name" validate:"notblank"`
	Username     string `json:"username" validate:"notblank"`
	Department   string `json:"department"`
	Position     string `json:"position"`
	PhoneNumber  string `json:"phoneNumber"`
	BusinessDate string `json:"businessDate" validate:"omitempty,isodate"`
	IsAdmin      bool   `json:"isAdmin"`
}

// NextUserID returns max(existing ids)+1, or 1 for an empty collection.
func NextUserID(users []User) int64 {
	var maxID int64
	for idx := range users {
		if users[idx].ID > maxID {
			maxID = users[idx].ID
		}
	}
	return maxID + 1
}

// IndexOfUser returns the position of the user with the given id, or -1.
func IndexOfUser(users []User, id int64) int {
	for idx := range users {
		if users[idx].ID == id {
			return idx
		}
	}
	return -1
}
