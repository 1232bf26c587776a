package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/pins"
)

func TestSendMessage(t *testing.T) {
	db := setupTestDB(t)
	client := createTestUser(t, db, models.RoleClient, "client@example.com")
	engineer := createTestUser(t, db, models.RoleEngineer, "engineer@example.com")
	otherClient := createTestUser(t, db, models.RoleClient, "other@example.com")
	rival := createTestUser(t, db, models.RoleEngineer, "rival@example.com")
	pkg := createTestPackage(t, db, 2, true)
	order := createTestOrder(t, db, client, pkg, &engineer.ID, models.OrderInProgress)

	tests := []struct {
		name           string
		userID         uint
		role           models.Role
		body           map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, data map[string]interface{})
	}{
		{
			name:           "client sends plain text on own order",
			userID:         client.ID,
			role:           models.RoleClient,
			body:           map[string]interface{}{"content": "متى يكون المخطط جاهزاً؟"},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "text", data["kind"])
				assert.Equal(t, "متى يكون المخطط جاهزاً؟", data["content"])
				assert.Equal(t, float64(client.ID), data["sender_id"])
				sender := data["sender"].(map[string]interface{})
				assert.Equal(t, client.Email, sender["email"])
			},
		},
		{
			name:   "client sends a modification point",
			userID: client.ID,
			role:   models.RoleClient,
			body: map[string]interface{}{
				"kind":      "modification_point",
				"pin_index": 3,
				"location":  "غرفة النوم",
				"note":      "الرجاء تغيير الموقع",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "modification_point", data["kind"])
				assert.Equal(t, float64(3), data["pin_index"])
				assert.Equal(t, "غرفة النوم", data["pin_location"])
				assert.Equal(t, "الرجاء تغيير الموقع", data["pin_note"])

				// The prose rendering stays parseable for legacy readers.
				point := pins.Parse(data["content"].(string))
				require.NotNil(t, point)
				assert.Equal(t, 3, point.PinIndex)
				assert.Equal(t, "غرفة النوم", point.Location)
			},
		},
		{
			name:   "modification point without note gets the placeholder",
			userID: client.ID,
			role:   models.RoleClient,
			body: map[string]interface{}{
				"kind":      "modification_point",
				"pin_index": 1,
				"location":  "المطبخ",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, pins.NoNotePlaceholder, data["pin_note"])
			},
		},
		{
			name:           "modification point without location fails validation",
			userID:         client.ID,
			role:           models.RoleClient,
			body:           map[string]interface{}{"kind": "modification_point", "pin_index": 1},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "empty plain text fails validation",
			userID:         client.ID,
			role:           models.RoleClient,
			body:           map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "foreign client cannot message",
			userID:         otherClient.ID,
			role:           models.RoleClient,
			body:           map[string]interface{}{"content": "مرحبا"},
			expectedStatus: http.StatusForbidden,
			expectedError:  "FORBIDDEN",
		},
		{
			name:           "rival engineer cannot message on bound order",
			userID:         rival.ID,
			role:           models.RoleEngineer,
			body:           map[string]interface{}{"content": "مرحبا"},
			expectedStatus: http.StatusForbidden,
			expectedError:  "FORBIDDEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/orders/:id/messages", principalMiddleware(tt.userID, tt.role), SendMessage)

			w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/orders/%d/messages", order.ID), tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(t, w))
				return
			}
			if tt.checkResponse != nil {
				response := parseResponse(t, w)
				tt.checkResponse(t, response["data"].(map[string]interface{}))
			}
		})
	}
}

func TestListMessagesMarksOthersRead(t *testing.T) {
	db := setupTestDB(t)
	client := createTestUser(t, db, models.RoleClient, "client@example.com")
	engineer := createTestUser(t, db, models.RoleEngineer, "engineer@example.com")
	pkg := createTestPackage(t, db, 2, true)
	order := createTestOrder(t, db, client, pkg, &engineer.ID, models.OrderInProgress)

	fromClient := models.Message{OrderID: order.ID, SenderID: client.ID, Kind: models.MessageKindText, Content: "رسالة من العميل"}
	fromEngineer := models.Message{OrderID: order.ID, SenderID: engineer.ID, Kind: models.MessageKindText, Content: "رسالة من المهندس"}
	require.NoError(t, db.Create(&fromClient).Error)
	require.NoError(t, db.Create(&fromEngineer).Error)

	router := setupTestRouter()
	router.GET("/orders/:id/messages", principalMiddleware(client.ID, models.RoleClient), ListMessages)

	w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/orders/%d/messages", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The engineer's message flips to read; the client's own does not.
	var reloaded models.Message
	require.NoError(t, db.First(&reloaded, fromEngineer.ID).Error)
	assert.True(t, reloaded.IsRead)
	reloaded = models.Message{}
	require.NoError(t, db.First(&reloaded, fromClient.ID).Error)
	assert.False(t, reloaded.IsRead)

	response := parseResponse(t, w)
	data := response["data"].([]interface{})
	require.Len(t, data, 2)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "رسالة من العميل", first["content"], "thread is in creation order")
}

func TestListMessagesClassifiesLegacyProse(t *testing.T) {
	db := setupTestDB(t)
	client := createTestUser(t, db, models.RoleClient, "client@example.com")
	pkg := createTestPackage(t, db, 2, true)
	order := createTestOrder(t, db, client, pkg, nil, models.OrderPending)

	legacyPoint := models.Message{
		OrderID:  order.ID,
		SenderID: client.ID,
		Content:  "نقطة التعديل #2\nالموقع: (الصالة)\nالملاحظة: تكبير النافذة",
	}
	legacyText := models.Message{OrderID: order.ID, SenderID: client.ID, Content: "مرحبا كيف حالك"}
	require.NoError(t, db.Create(&legacyPoint).Error)
	require.NoError(t, db.Create(&legacyText).Error)
	// Rows written before messages carried a kind.
	require.NoError(t, db.Model(&models.Message{}).Where("order_id = ?", order.ID).Update("kind", "").Error)

	router := setupTestRouter()
	router.GET("/orders/:id/messages", principalMiddleware(client.ID, models.RoleClient), ListMessages)

	w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/orders/%d/messages", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := parseResponse(t, w)["data"].([]interface{})
	require.Len(t, data, 2)

	point := data[0].(map[string]interface{})
	assert.Equal(t, "modification_point", point["kind"])
	assert.Equal(t, float64(2), point["pin_index"])
	assert.Equal(t, "الصالة", point["pin_location"])
	assert.Equal(t, "تكبير النافذة", point["pin_note"])

	text := data[1].(map[string]interface{})
	assert.Equal(t, "text", text["kind"])
	assert.Nil(t, text["pin_index"])
}
