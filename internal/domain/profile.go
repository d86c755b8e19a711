package domain

import "time"

type Profile struct {
	ID          int32     `json:"id"`
	Name        string    `json:"name"`
	CreatedDate time.Time `json:"createdDate"`
}

type ProfileStats struct {
	BillCount     int `json:"billCount"`
	TemplateCount int `json:"templateCount"`
}

// ProfileWithStats is a profile listed together with its bill and template counts
type ProfileWithStats struct {
	Profile
	Stats ProfileStats `json:"stats"`
}

type ProfileRepository interface {
	Create(name string) (*Profile, error)
	GetByID(id int32) (*Profile, error)
	List() ([]*Profile, error)
	Rename(id int32, name string) (*Profile, error)
	Delete(id int32) error
}
