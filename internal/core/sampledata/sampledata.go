// Package sampledata produces employee directory records for local development,
// demos and load tests. Generation is deterministic for a given seed.
package sampledata

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/staffsearch/staffsearch/internal/core"
)

var (
	firstNames = []string{
		"005Test", "007Test", "Amelia", "Amanda", "AnaTest", "Arlani",
		"John", "Jane", "Michael", "Sarah", "David", "Lisa", "Robert",
		"Emily", "James", "Jessica", "William", "Ashley", "Richard",
		"Jennifer", "Thomas", "Christopher", "Stephanie",
		"Daniel", "Nicole", "Matthew", "Rachel", "Anthony", "Samantha",
	}

	lastNames = []string{
		"005", "007", "last", "Cerny", "Profile", "Sosala", "zxc",
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
		"Miller", "Davis", "Rodriguez", "Martinez", "Hernandez",
		"Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor",
		"Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson",
	}

	departments = []string{
		"Engineering", "Marketing", "Sales", "Human Resources",
		"Finance", "Operations", "Product", "Design", "Legal",
		"Customer Support", "Research", "Quality Assurance",
		"Business Development", "IT", "Procurement",
	}

	positions = []string{
		"Assistant Manager", "Software Developer", "Senior Engineer",
		"Product Manager", "Designer", "Sales Representative",
		"HR Specialist", "Financial Analyst", "Operations Manager",
		"Marketing Coordinator", "Customer Success Manager",
		"Data Analyst", "Project Manager", "Technical Lead",
		"Business Analyst", "Quality Engineer", "DevOps Engineer",
	}

	locations = []string{
		"Singapore", "New York", "London", "Tokyo",
		"Sydney", "Toronto", "Berlin", "Paris", "Mumbai",
		"San Francisco", "Chicago", "Los Angeles", "Boston",
		"Seattle", "Austin", "Dubai", "Hong Kong", "Amsterdam",
	}

	emailDomains = []string{
		"company.com", "corp.com", "enterprise.com", "business.com",
		"organization.com", "firm.com",
	}

	areaCodes = []string{"212", "415", "310", "650", "408", "202", "312", "713"}
)

// EmployeeID formats the sequential identifier for the n-th employee (1-based).
func EmployeeID(n int) string {
	return fmt.Sprintf("EMP%04d", n)
}

// Generator builds employees from a seeded source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator whose output is fully determined by seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate returns count employees numbered from start (1-based).
func (g *Generator) Generate(start, count int) []core.Employee {
	if count <= 0 {
		return nil
	}
	if start < 1 {
		start = 1
	}

	out := make([]core.Employee, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, g.employee(start+i))
	}
	return out
}

func (g *Generator) employee(n int) core.Employee {
	first := g.pick(firstNames)
	last := g.pick(lastNames)

	emp := core.Employee{
		ID:        EmployeeID(n),
		FirstName: first,
		LastName:  last,
		Email:     core.StringPtr(g.email(first, last)),
		Status:    core.StatusActive,
	}

	// roughly one in ten records is missing org details
	if g.rng.Float64() > 0.1 {
		emp.Department = core.StringPtr(g.pick(departments))
	}
	if g.rng.Float64() > 0.1 {
		emp.Position = core.StringPtr(g.pick(positions))
	}
	if g.rng.Float64() > 0.05 {
		emp.Location = core.StringPtr(g.pick(locations))
	}
	if g.rng.Float64() > 0.2 {
		emp.Phone = core.StringPtr(g.phone())
	}
	if g.rng.Float64() <= 0.05 {
		emp.Status = []core.Status{core.StatusInactive, core.StatusTerminated}[g.rng.IntN(2)]
	}

	return emp
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.IntN(len(values))]
}

func (g *Generator) email(first, last string) string {
	local := func(name, fallback string) string {
		s := strings.ReplaceAll(strings.ToLower(name), " ", "")
		s = strings.ReplaceAll(s, "test", "")
		if len(s) > 10 {
			s = s[:10]
		}
		if s == "" {
			return fallback
		}
		return s
	}
	return fmt.Sprintf("%s.%s@%s", local(first, "employee"), local(last, "user"), g.pick(emailDomains))
}

func (g *Generator) phone() string {
	return fmt.Sprintf("+1-%s-%d-%d", g.pick(areaCodes), 100+g.rng.IntN(900), 1000+g.rng.IntN(9000))
}
