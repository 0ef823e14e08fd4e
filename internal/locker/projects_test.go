package locker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveStampsOwnerAndBackfills(t *testing.T) {
	st := newTestStore(t)

	err := st.SaveUserData("owner@example.com", []Project{{
		ID:   "p1",
		Name: "scratchpad",
		Files: []File{
			{Name: "main.go", Content: "package main"},
		},
	}}, nil)
	require.NoError(t, err)

	data := st.UserData("owner@example.com")
	require.Len(t, data.Projects, 1)

	p := data.Projects[0]
	assert.Equal(t, "owner@example.com", p.Owner)
	assert.NotEmpty(t, p.PublicID)
	require.Len(t, p.Files, 1)
	assert.NotEmpty(t, p.Files[0].PublicID)
	assert.NotNil(t, p.Files[0].History)
	assert.Empty(t, p.Files[0].History)
}

func TestUserDataKeepsEmptyContainersOnTheWire(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveUserData("owner@example.com", []Project{{
		ID:            "p1",
		Name:          "fresh",
		Collaborators: []string{},
		Files:         []File{{Name: "a.txt", Content: "a"}},
	}}, nil))

	data := st.UserData("owner@example.com")
	require.Len(t, data.Projects, 1)

	payload, err := json.Marshal(data.Projects[0])
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"history":[]`)
	assert.Contains(t, string(payload), `"collaborators":[]`)
	assert.NotContains(t, string(payload), "null")
}

func TestUserDataSettingsIsACopy(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveUserData("owner@example.com", nil, Settings{"theme": "dark"}))

	data := st.UserData("owner@example.com")
	data.Settings["theme"] = "light"

	again := st.UserData("owner@example.com")
	assert.Equal(t, "dark", again.Settings["theme"])
}

func TestSaveIsFullOverwrite(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveUserData("owner@example.com", []Project{
		{ID: "p1", Name: "one"},
		{ID: "p2", Name: "two"},
	}, nil))
	require.NoError(t, st.SaveUserData("owner@example.com", []Project{
		{ID: "p2", Name: "two"},
	}, nil))

	data := st.UserData("owner@example.com")
	require.Len(t, data.Projects, 1)
	assert.Equal(t, "p2", data.Projects[0].ID)
}

func TestNilProjectsLeavesCollectionAlone(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveUserData("owner@example.com", []Project{
		{ID: "p1", Name: "one"},
	}, nil))
	require.NoError(t, st.SaveUserData("owner@example.com", nil, Settings{"theme": "dark"}))

	data := st.UserData("owner@example.com")
	assert.Len(t, data.Projects, 1)
	assert.Equal(t, "dark", data.Settings["theme"])
}

func TestSettingsReplaceWholesale(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveUserData("owner@example.com", nil, Settings{"theme": "dark", "tabSize": 4}))
	require.NoError(t, st.SaveUserData("owner@example.com", nil, Settings{"theme": "light"}))

	data := st.UserData("owner@example.com")
	assert.Equal(t, "light", data.Settings["theme"])
	_, stillThere := data.Settings["tabSize"]
	assert.False(t, stillThere)
}

func TestSaveRequiresEmail(t *testing.T) {
	st := newTestStore(t)
	assert.ErrorIs(t, st.SaveUserData("", nil, nil), ErrBadRequest)
}

func TestUserDataEmptyEmail(t *testing.T) {
	st := newTestStore(t)

	data := st.UserData("")
	assert.Empty(t, data.Projects)
	assert.Empty(t, data.Settings)
}

func TestCollaboratorSeesSharedProject(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveUserData("owner@example.com", []Project{{
		ID:            "p1",
		Name:          "shared-notes",
		Collaborators: []string{"collab@example.com"},
		Files:         []File{{Name: "notes.md", Content: "v1"}},
	}}, nil))

	data := st.UserData("collab@example.com")
	require.Len(t, data.Projects, 1)
	assert.Equal(t, "owner@example.com", data.Projects[0].Owner)
	assert.Equal(t, "shared-notes", data.Projects[0].Name)
}

func TestCollaboratorEditWritesBackToOwner(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveUserData("owner@example.com", []Project{{
		ID:            "p1",
		Name:          "shared-notes",
		Collaborators: []string{"collab@example.com"},
		Files:         []File{{Name: "notes.md", Content: "v1"}},
	}}, nil))

	// collaborator pushes their merged view back with an edit
	view := st.UserData("collab@example.com")
	require.Len(t, view.Projects, 1)
	view.Projects[0].Files[0].Content = "v2 by collab"
	require.NoError(t, st.SaveUserData("collab@example.com", view.Projects, nil))

	// the edit landed in the owner's stored copy
	ownerData := st.UserData("owner@example.com")
	require.Len(t, ownerData.Projects, 1)
	assert.Equal(t, "v2 by collab", ownerData.Projects[0].Files[0].Content)

	// the project did not leak into the collaborator's own collection
	st.View(func(d *Document) {
		assert.Empty(t, d.Projects["collab@example.com"])
	})

	// and the collaborator still sees it as shared
	collabData := st.UserData("collab@example.com")
	require.Len(t, collabData.Projects, 1)
	assert.Equal(t, "owner@example.com", collabData.Projects[0].Owner)
}

func TestForeignProjectUpsertsWhenOwnerRecordMissing(t *testing.T) {
	st := newTestStore(t)

	// the owner's collection was never created (or was deleted); the
	// collaborator's edit must not be dropped
	require.NoError(t, st.SaveUserData("collab@example.com", []Project{{
		ID:    "p9",
		Name:  "orphan",
		Owner: "ghost@example.com",
	}}, nil))

	ghostData := st.UserData("ghost@example.com")
	require.Len(t, ghostData.Projects, 1)
	assert.Equal(t, "orphan", ghostData.Projects[0].Name)
	assert.Equal(t, "ghost@example.com", ghostData.Projects[0].Owner)
}

func TestForeignProjectUpsertsWhenIDUnmatched(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveUserData("owner@example.com", []Project{
		{ID: "p1", Name: "existing"},
	}, nil))
	require.NoError(t, st.SaveUserData("collab@example.com", []Project{{
		ID:    "p2",
		Name:  "new-from-collab",
		Owner: "owner@example.com",
	}}, nil))

	ownerData := st.UserData("owner@example.com")
	require.Len(t, ownerData.Projects, 2)
}

func TestOwnProjectsComeFirst(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveUserData("a@example.com", []Project{{
		ID:            "shared",
		Name:          "from-a",
		Collaborators: []string{"b@example.com"},
	}}, nil))
	require.NoError(t, st.SaveUserData("b@example.com", []Project{
		{ID: "own", Name: "mine"},
	}, nil))

	data := st.UserData("b@example.com")
	require.Len(t, data.Projects, 2)
	assert.Equal(t, "mine", data.Projects[0].Name)
	assert.Equal(t, "from-a", data.Projects[1].Name)
}

func TestRoundTrip(t *testing.T) {
	st := newTestStore(t)

	in := []Project{{
		ID:   "p1",
		Name: "roundtrip",
		Files: []File{
			{Name: "a.txt", Content: "alpha"},
			{Name: "b.txt", Content: "beta"},
		},
	}}
	settings := Settings{"username": "rt", "theme": "dark"}
	require.NoError(t, st.SaveUserData("user@example.com", in, settings))

	data := st.UserData("user@example.com")
	require.Len(t, data.Projects, 1)
	assert.Equal(t, "roundtrip", data.Projects[0].Name)
	require.Len(t, data.Projects[0].Files, 2)
	assert.Equal(t, "alpha", data.Projects[0].Files[0].Content)
	assert.Equal(t, "beta", data.Projects[0].Files[1].Content)
	assert.Equal(t, "dark", data.Settings["theme"])
}
