package store

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
	DBTypeRedis    DatabaseType = "redis"
)

type DBConfig struct {
	DSN  string
	Type DatabaseType
}

// DefaultButton is one entry of the seed catalog installed on first run.
type DefaultButton struct {
	Name   string
	Points float64
	Type   string
}

// DefaultButtons is the fixed starter catalog: four penalties, four
// bonuses. Seeding only installs it into an empty button table.
var DefaultButtons = []DefaultButton{
	{Name: "Late to class", Points: -5, Type: "penalty"},
	{Name: "Missing homework", Points: -10, Type: "penalty"},
	{Name: "Talking in class", Points: -5, Type: "penalty"},
	{Name: "Uniform violation", Points: -10, Type: "penalty"},
	{Name: "Helping a classmate", Points: 5, Type: "bonus"},
	{Name: "Great participation", Points: 5, Type: "bonus"},
	{Name: "Perfect score", Points: 10, Type: "bonus"},
	{Name: "Active in class", Points: 10, Type: "bonus"},
}
