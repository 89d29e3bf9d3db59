package models

type Employee struct {
	ID       uint   `gorm:"column:id;primaryKey" json:"id"`
	Name     string `gorm:"column:name;not null" json:"name"`
	Position string `gorm:"column:position;not null" json:"position"`
	WorkTime string `gorm:"column:work_time" json:"work_time"`
}

func (Employee) TableName() string { return "employees" }
