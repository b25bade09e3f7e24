package db

import "gorm.io/gorm"

type Repositories struct {
	FlowLogs *FlowLogRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		FlowLogs: NewFlowLogRepository(database),
	}
}
