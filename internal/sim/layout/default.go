package layout

// defaultLayoutJSON is the arena used when the server is started without a
// -layout flag. Hostiles spawn outside the engagement radius so the squad can
// move before the first fight.
const defaultLayoutJSON = `{
  "name": "arena",
  "structures": [
    {"id": "wall_n", "center": [0, 2, 40], "size": [80, 4, 1]},
    {"id": "wall_s", "center": [0, 2, -40], "size": [80, 4, 1]},
    {"id": "wall_e", "center": [40, 2, 0], "size": [1, 4, 80]},
    {"id": "wall_w", "center": [-40, 2, 0], "size": [1, 4, 80]},
    {"id": "crate_1", "center": [6, 0.75, 8], "size": [1.5, 1.5, 1.5]},
    {"id": "crate_2", "center": [-5, 0.75, 12], "size": [1.5, 1.5, 1.5]},
    {"id": "platform_1", "center": [12, 0.5, -6], "size": [4, 1, 4]}
  ],
  "actors": [
    {
      "id": "ranger", "faction": "controllable", "pos": [0, 0, 0], "yaw": 0, "hp": 100,
      "weapon": [
        {"damage": 25, "range": 20},
        {"damage": 40, "range": 6, "stun": 1}
      ]
    },
    {
      "id": "medic", "faction": "controllable", "pos": [-2, 0, -2], "yaw": 0, "hp": 80,
      "weapon": [{"damage": 15, "range": 18}]
    },
    {
      "id": "heavy", "faction": "controllable", "pos": [2, 0, -2], "yaw": 0, "hp": 120,
      "weapon": [{"damage": 30, "range": 12, "blast": 2.0}]
    },
    {
      "id": "raider_1", "faction": "hostile", "pos": [20, 0, 24], "yaw": 3.14159, "hp": 60,
      "weapon": [{"damage": 20, "range": 16}]
    },
    {
      "id": "raider_2", "faction": "hostile", "pos": [24, 0, 26], "yaw": 3.14159, "hp": 60,
      "weapon": [{"damage": 20, "range": 16}]
    },
    {
      "id": "raider_3", "faction": "hostile", "pos": [-26, 0, 22], "yaw": 3.14159, "hp": 80,
      "weapon": [{"damage": 35, "range": 8}]
    }
  ]
}`

// Default parses the embedded arena. It panics only if the embedded document
// is broken, which is a programming error caught by tests.
func Default() *Layout {
	l, err := Parse([]byte(defaultLayoutJSON))
	if err != nil {
		panic(err)
	}
	return l
}
