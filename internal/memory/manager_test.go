package memory

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opsre/trafficmind/internal/model"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Conversation{}, &model.ChatLog{}))
	return NewManager(db, nil)
}

func TestEnsureConversationIdempotent(t *testing.T) {
	m := newTestManager(t)

	first, err := m.EnsureConversation("s1", "第一条问题")
	require.NoError(t, err)
	assert.Equal(t, "第一条问题", first.Title)

	second, err := m.EnsureConversation("s1", "另一条问题")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "第一条问题", second.Title)
}

func TestSaveAndLoadHistory(t *testing.T) {
	m := newTestManager(t)

	_, err := m.EnsureConversation("s1", "问题")
	require.NoError(t, err)

	require.NoError(t, m.SaveMessage("s1", ChatTypeUser, "有多少起事故？", "DATA_QUERY"))
	require.NoError(t, m.SaveMessage("s1", ChatTypeAI, "共 42 起。", "DATA_QUERY"))
	require.NoError(t, m.SaveMessage("s2", ChatTypeUser, "别的会话", ""))

	history, err := m.GetConversationHistory("s1", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// 时间正序: 先问后答
	assert.Equal(t, ChatTypeUser, history[0].ChatType)
	assert.Equal(t, "有多少起事故？", history[0].Content)
	assert.Equal(t, ChatTypeAI, history[1].ChatType)
	assert.Equal(t, "DATA_QUERY", history[1].Intent)
}

func TestHistoryLimit(t *testing.T) {
	m := newTestManager(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, m.SaveMessage("s1", ChatTypeUser, "q", ""))
	}

	history, err := m.GetConversationHistory("s1", 3)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestListConversations(t *testing.T) {
	m := newTestManager(t)

	_, err := m.EnsureConversation("s1", "a")
	require.NoError(t, err)
	_, err = m.EnsureConversation("s2", "b")
	require.NoError(t, err)
	require.NoError(t, m.SaveMessage("s1", ChatTypeUser, "新消息", ""))

	convs, err := m.ListConversations(10)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	// s1 最后有新消息, 排在前面
	assert.Equal(t, "s1", convs[0].SessionID)
}

func TestChatTypeRoleMapping(t *testing.T) {
	assert.Equal(t, "user", chatTypeToRole(ChatTypeUser))
	assert.Equal(t, "assistant", chatTypeToRole(ChatTypeAI))
	assert.Equal(t, ChatTypeUser, roleToChatType("user"))
	assert.Equal(t, ChatTypeAI, roleToChatType("assistant"))
}
