package storage

import (
	"github.com/goliatone/go-skillsnap/internal/model"
	"github.com/goliatone/go-skillsnap/repositorycache"
	"github.com/uptrace/bun"
)

type (
	ProjectRepository = Repository[model.Project, *model.Project]
	SkillRepository   = Repository[model.Skill, *model.Skill]
)

var (
	_ repositorycache.Repository[model.Project] = (*ProjectRepository)(nil)
	_ repositorycache.Repository[model.Skill]   = (*SkillRepository)(nil)
)

func NewProjectRepository(db bun.IDB) *ProjectRepository {
	return NewRepository[model.Project, *model.Project](db)
}

func NewSkillRepository(db bun.IDB) *SkillRepository {
	return NewRepository[model.Skill, *model.Skill](db)
}
