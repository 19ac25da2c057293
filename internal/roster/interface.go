package roster

// Store defines the operations on the selectable player roster.
type Store interface {
	List() ([]Player, error)
	Get(id string) (Player, error)
	Upsert(players []Player) error
	Replace(players []Player) error
	Count() (int, error)
}
