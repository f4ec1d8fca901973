package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rhythm_room/internal/api"
	"rhythm_room/internal/repository"
	"rhythm_room/internal/service"
	"rhythm_room/internal/testutils"
)

// newTestRouter 建立一個掛在記憶體 repository 上的完整路由
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	repos := &repository.Repositories{
		User: testutils.NewFakeUserRepository(),
		Room: testutils.NewFakeRoomRepository(),
	}
	services := service.NewServices(repos)

	r := gin.New()
	api.SetupRoutes(r, services)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// createUser 建號並回傳發放的 token
func createUser(t *testing.T, r *gin.Engine, name string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/user/create", "", gin.H{
		"user_name":      name,
		"leader_card_id": 1000,
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, ok := decode(t, w)["user_token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

// TestUserCreateAndMe 建號後能以 token 取得自己的資訊
func TestUserCreateAndMe(t *testing.T) {
	r := newTestRouter()
	token := createUser(t, r, "alice")

	w := doJSON(t, r, http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "alice", body["name"])
	assert.Equal(t, float64(1000), body["leader_card_id"])
	assert.NotContains(t, body, "token")
}

// TestUserUpdate 修改名稱與頭像後 /user/me 反映新值
func TestUserUpdate(t *testing.T) {
	r := newTestRouter()
	token := createUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/user/update", token, gin.H{
		"user_name":      "alice2",
		"leader_card_id": 2000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "alice2", body["name"])
	assert.Equal(t, float64(2000), body["leader_card_id"])
}

// TestAuthRequired 缺少或無效的 token 一律 401
func TestAuthRequired(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/room/create", "", gin.H{
		"live_id":           10,
		"select_difficulty": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/room/create", "no-such-token", gin.H{
		"live_id":           10,
		"select_difficulty": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestRoomCreateAndList 建立房間後列表帶出整數編碼的欄位
func TestRoomCreateAndList(t *testing.T) {
	r := newTestRouter()
	token := createUser(t, r, "host")

	w := doJSON(t, r, http.MethodPost, "/api/room/create", token, gin.H{
		"live_id":           10,
		"select_difficulty": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)
	roomID := decode(t, w)["room_id"].(float64)
	require.NotZero(t, roomID)

	w = doJSON(t, r, http.MethodPost, "/api/room/list", "", gin.H{"live_id": 10})
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["room_info_list"].([]any)
	require.Len(t, list, 1)
	info := list[0].(map[string]any)
	assert.Equal(t, roomID, info["room_id"])
	assert.Equal(t, float64(10), info["live_id"])
	assert.Equal(t, float64(1), info["joined_user_count"])
	assert.Equal(t, float64(4), info["max_user_count"])
}

// TestRoomCreate_InvalidDifficulty 難易度超出合法值時 400
func TestRoomCreate_InvalidDifficulty(t *testing.T) {
	r := newTestRouter()
	token := createUser(t, r, "host")

	w := doJSON(t, r, http.MethodPost, "/api/room/create", token, gin.H{
		"live_id":           10,
		"select_difficulty": 3,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestRoomJoinResults 入場結果以 join_room_result 的整數值回傳
func TestRoomJoinResults(t *testing.T) {
	r := newTestRouter()
	host := createUser(t, r, "host")

	w := doJSON(t, r, http.MethodPost, "/api/room/create", host, gin.H{
		"live_id":           10,
		"select_difficulty": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)
	roomID := decode(t, w)["room_id"].(float64)

	// 三位加入後滿員
	for i := 0; i < 3; i++ {
		token := createUser(t, r, fmt.Sprintf("guest_%d", i))
		w = doJSON(t, r, http.MethodPost, "/api/room/join", token, gin.H{
			"room_id":           roomID,
			"select_difficulty": 2,
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), decode(t, w)["join_room_result"]) // Ok
	}

	late := createUser(t, r, "late")
	w = doJSON(t, r, http.MethodPost, "/api/room/join", late, gin.H{
		"room_id":           roomID,
		"select_difficulty": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["join_room_result"]) // RoomFull

	// 不存在的房間視為已解散
	w = doJSON(t, r, http.MethodPost, "/api/room/join", late, gin.H{
		"room_id":           9999,
		"select_difficulty": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decode(t, w)["join_room_result"]) // Disbanded
}

// TestRoomWaitAndStart 輪詢回傳成員列表，房主開始後狀態變為 LiveStart
func TestRoomWaitAndStart(t *testing.T) {
	r := newTestRouter()
	host := createUser(t, r, "host")
	guest := createUser(t, r, "guest")

	w := doJSON(t, r, http.MethodPost, "/api/room/create", host, gin.H{
		"live_id":           10,
		"select_difficulty": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)
	roomID := decode(t, w)["room_id"].(float64)

	w = doJSON(t, r, http.MethodPost, "/api/room/join", guest, gin.H{
		"room_id":           roomID,
		"select_difficulty": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 訪客視角的等待畫面
	w = doJSON(t, r, http.MethodPost, "/api/room/wait", guest, gin.H{"room_id": roomID})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["status"]) // Waiting
	users := body["room_user_list"].([]any)
	require.Len(t, users, 2)

	first := users[0].(map[string]any)
	assert.Equal(t, "host", first["name"])
	assert.Equal(t, true, first["is_host"])
	assert.Equal(t, false, first["is_me"])
	second := users[1].(map[string]any)
	assert.Equal(t, true, second["is_me"])
	assert.Equal(t, float64(2), second["select_difficulty"])

	// 非房主開始演奏被拒絕
	w = doJSON(t, r, http.MethodPost, "/api/room/start", guest, gin.H{"room_id": roomID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 房主開始後任何成員輪詢都看到 LiveStart
	w = doJSON(t, r, http.MethodPost, "/api/room/start", host, gin.H{"room_id": roomID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/room/wait", guest, gin.H{"room_id": roomID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["status"]) // LiveStart
}

// TestRoomEndAndResult 全員提交前輪詢得到空列表，之後得到全員成績
func TestRoomEndAndResult(t *testing.T) {
	r := newTestRouter()
	host := createUser(t, r, "host")
	guest := createUser(t, r, "guest")

	w := doJSON(t, r, http.MethodPost, "/api/room/create", host, gin.H{
		"live_id":           10,
		"select_difficulty": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)
	roomID := decode(t, w)["room_id"].(float64)

	w = doJSON(t, r, http.MethodPost, "/api/room/join", guest, gin.H{
		"room_id":           roomID,
		"select_difficulty": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/room/start", host, gin.H{"room_id": roomID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/room/end", host, gin.H{
		"room_id":          roomID,
		"judge_count_list": []int{1111, 222, 33, 44, 5},
		"score":            1234,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 一人未提交，結果列表為空
	w = doJSON(t, r, http.MethodPost, "/api/room/result", "", gin.H{"room_id": roomID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["result_user_list"])

	w = doJSON(t, r, http.MethodPost, "/api/room/end", guest, gin.H{
		"room_id":          roomID,
		"judge_count_list": []int{900, 80, 7, 0, 0},
		"score":            5678,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/room/result", "", gin.H{"room_id": roomID})
	require.Equal(t, http.StatusOK, w.Code)
	results := decode(t, w)["result_user_list"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	assert.Equal(t, float64(1234), first["score"])
	assert.Equal(t, []any{float64(1111), float64(222), float64(33), float64(44), float64(5)}, first["judge_count_list"])
}

// TestRoomLeave 房主離開後留下的成員看到解散
func TestRoomLeave(t *testing.T) {
	r := newTestRouter()
	host := createUser(t, r, "host")
	guest := createUser(t, r, "guest")

	w := doJSON(t, r, http.MethodPost, "/api/room/create", host, gin.H{
		"live_id":           10,
		"select_difficulty": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)
	roomID := decode(t, w)["room_id"].(float64)

	w = doJSON(t, r, http.MethodPost, "/api/room/join", guest, gin.H{
		"room_id":           roomID,
		"select_difficulty": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/room/leave", host, gin.H{"room_id": roomID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/room/wait", guest, gin.H{"room_id": roomID})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(3), body["status"]) // Dissolution
	assert.Empty(t, body["room_user_list"])
}
