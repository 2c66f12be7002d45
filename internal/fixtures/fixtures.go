package fixtures

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed 初始化数据，任务和评论通过名称引用用户、项目和任务
type Seed struct {
	Password     string    `yaml:"password"`
	DeadlineDays DayRange  `yaml:"deadline_days"`
	Users        []User    `yaml:"users"`
	Projects     []Project `yaml:"projects"`
	Tasks        []Task    `yaml:"tasks"`
	Comments     []Comment `yaml:"comments"`
}

type DayRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

type User struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
}

type Project struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
	Owner       string `yaml:"owner"`
}

type Task struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Priority    string   `yaml:"priority"`
	Category    string   `yaml:"category"`
	Status      string   `yaml:"status"`
	Project     string   `yaml:"project"`
	Assignees   []string `yaml:"assignees"`
}

type Comment struct {
	Text   string `yaml:"text"`
	Task   string `yaml:"task"`
	Author string `yaml:"author"`
}

// Load 解析内置的初始化数据
func Load() (*Seed, error) {
	return Parse(seedYAML)
}

// Parse 解析并校验引用关系
func Parse(data []byte) (*Seed, error) {
	seed := &Seed{}
	if err := yaml.Unmarshal(data, seed); err != nil {
		return nil, fmt.Errorf("解析初始化数据失败: %w", err)
	}
	if err := seed.validate(); err != nil {
		return nil, err
	}
	return seed, nil
}

func (s *Seed) validate() error {
	if s.Password == "" {
		return fmt.Errorf("初始化数据缺少 password")
	}
	if s.DeadlineDays.Min < 0 || s.DeadlineDays.Max < s.DeadlineDays.Min {
		return fmt.Errorf("deadline_days 范围无效: %d-%d", s.DeadlineDays.Min, s.DeadlineDays.Max)
	}

	users := make(map[string]struct{}, len(s.Users))
	for _, u := range s.Users {
		users[u.Username] = struct{}{}
	}
	projects := make(map[string]struct{}, len(s.Projects))
	for _, p := range s.Projects {
		if _, ok := users[p.Owner]; !ok {
			return fmt.Errorf("项目 %s 的 owner %s 不存在", p.Name, p.Owner)
		}
		projects[p.Name] = struct{}{}
	}
	tasks := make(map[string]struct{}, len(s.Tasks))
	for _, t := range s.Tasks {
		if _, ok := projects[t.Project]; !ok {
			return fmt.Errorf("任务 %s 的项目 %s 不存在", t.Title, t.Project)
		}
		for _, a := range t.Assignees {
			if _, ok := users[a]; !ok {
				return fmt.Errorf("任务 %s 的指派人 %s 不存在", t.Title, a)
			}
		}
		tasks[t.Title] = struct{}{}
	}
	for _, c := range s.Comments {
		if _, ok := tasks[c.Task]; !ok {
			return fmt.Errorf("评论引用的任务 %s 不存在", c.Task)
		}
		if _, ok := users[c.Author]; !ok {
			return fmt.Errorf("评论作者 %s 不存在", c.Author)
		}
	}
	return nil
}
