package monster_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/monster"
	"github.com/cory-johannsen/arena/internal/game/power"
)

func validTemplate() *monster.Template {
	return &monster.Template{ID: "rat", Name: "Rat", MaxHP: 10, Damage: "1d4", Block: 1,
		Powers: []monster.Grant{{Power: "strength", Amount: 1}}}
}

func TestTemplate_Validate(t *testing.T) {
	assert.NoError(t, validTemplate().Validate())

	cases := map[string]func(*monster.Template){
		"no id":        func(m *monster.Template) { m.ID = "" },
		"no name":      func(m *monster.Template) { m.Name = "" },
		"zero hp":      func(m *monster.Template) { m.MaxHP = 0 },
		"bad damage":   func(m *monster.Template) { m.Damage = "four" },
		"neg block":    func(m *monster.Template) { m.Block = -1 },
		"empty power":  func(m *monster.Template) { m.Powers[0].Power = "" },
		"neg amount":   func(m *monster.Template) { m.Powers[0].Amount = -2 },
		"empty damage": func(m *monster.Template) { m.Damage = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tmpl := validTemplate()
			mutate(tmpl)
			assert.Error(t, tmpl.Validate())
		})
	}
}

func TestTemplate_BuildPowers(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Powers = append(tmpl.Powers, monster.Grant{Power: "vulnerable"})
	powers, err := tmpl.BuildPowers(power.DefaultRegistry(), power.NewFactory())
	require.NoError(t, err)
	require.Len(t, powers, 2)
	assert.Equal(t, power.NameStrength, powers[0].Name())
	assert.Equal(t, 11, powers[0].Affect(10, power.SourceAttack, nil, nil, nil))
	assert.Equal(t, power.NameVulnerable, powers[1].Name())
}

func TestTemplate_BuildPowers_UnknownPower(t *testing.T) {
	tmpl := validTemplate()
	tmpl.Powers = []monster.Grant{{Power: "telekinesis"}}
	_, err := tmpl.BuildPowers(power.DefaultRegistry(), power.NewFactory())
	assert.ErrorIs(t, err, power.ErrInvalidDefinition)
	assert.Contains(t, err.Error(), "telekinesis")
}

func TestLoadTemplateFromBytes_UnknownField(t *testing.T) {
	_, err := monster.LoadTemplateFromBytes([]byte("id: a\nname: A\nmax_hp: 3\ndamage: 1d2\nac: 12\n"))
	assert.Error(t, err)
}

func TestLoadTemplates_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rat.yaml"),
		[]byte("id: rat\nname: Rat\nmax_hp: 6\ndamage: 1d3\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))
	templates, err := monster.LoadTemplates(dir)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, 3, templates[0].DamageExpr().Sides)
}

func TestLoadTemplates_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: bad\nname: Bad\nmax_hp: 0\ndamage: 1d3\n"), 0644))
	_, err := monster.LoadTemplates(dir)
	assert.Error(t, err)
}

func TestLoadCatalog_Content(t *testing.T) {
	cat, err := monster.LoadCatalog("../../../content/monsters")
	require.NoError(t, err)
	assert.Equal(t, []string{"cultist", "guardian", "jaw_worm", "louse"}, cat.IDs())

	reg := power.DefaultRegistry()
	require.NoError(t, reg.LoadDirectory("../../../content/powers"))
	f := power.NewFactory()
	for _, id := range cat.IDs() {
		tmpl, err := cat.Get(id)
		require.NoError(t, err)
		for _, g := range tmpl.Powers {
			_, ok := reg.Get(g.Power)
			assert.True(t, ok, "%s grants unknown power %q", id, g.Power)
		}
		if id == "cultist" || id == "louse" {
			_, err := tmpl.BuildPowers(reg, f)
			assert.NoError(t, err)
		}
	}
}

func TestCatalog_Get_Unknown(t *testing.T) {
	_, err := monster.NewCatalog(nil).Get("dragon")
	assert.ErrorIs(t, err, monster.ErrUnknownTemplate)
}

func TestPropertyCatalog_LastTemplateWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "id")
		a := &monster.Template{ID: id, Name: "first"}
		b := &monster.Template{ID: id, Name: "second"}
		got, err := monster.NewCatalog([]*monster.Template{a, b}).Get(id)
		require.NoError(t, err)
		assert.Equal(t, "second", got.Name)
		assert.Len(t, monster.NewCatalog([]*monster.Template{a, b}).IDs(), 1)
	})
}
