package notification_test

import (
	"crypto/md5"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	handler "github.com/MrJamesThe3rd/p24gate/internal/http/notification"
	"github.com/MrJamesThe3rd/p24gate/internal/notification"
	"github.com/MrJamesThe3rd/p24gate/internal/payment"
)

const testCRC = "secret-crc"

func newServer(t *testing.T, setupMocks func(repo *notification.MockRepository)) *httptest.Server {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := notification.NewMockRepository(ctrl)
	approver := notification.NewMockApprover(ctrl)

	if setupMocks != nil {
		setupMocks(repo)
	}

	svc := notification.NewService(repo, approver, testCRC, nil)

	router := chi.NewRouter()
	router.Route("/webhook/przelewy24", handler.NewHandler(svc).Routes)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv
}

func postForm(t *testing.T, srv *httptest.Server, form url.Values) (int, string) {
	t.Helper()

	resp, err := http.Post(
		srv.URL+"/webhook/przelewy24/",
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)

	return resp.StatusCode, string(body[:n])
}

func TestNotify_MissingSessionID(t *testing.T) {
	srv := newServer(t, nil)

	status, body := postForm(t, srv, url.Values{"p24_order_id": {"987654"}})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Failed: No session id", body)
}

func TestNotify_UnknownTransaction(t *testing.T) {
	srv := newServer(t, func(repo *notification.MockRepository) {
		repo.EXPECT().
			FindTransactionByTrackingID(gomock.Any(), "12345").
			Return(nil, payment.ErrNotFound)
	})

	form := url.Values{}
	form.Set("p24_session_id", "12345-160302-154316")
	form.Set("p24_order_id", "987654")
	form.Set("p24_amount", "2500")
	form.Set("p24_currency", "PLN")

	payload := fmt.Sprintf("12345|987654|2500|PLN|%s", testCRC)
	form.Set("p24_sign", fmt.Sprintf("%x", md5.Sum([]byte(payload))))

	status, body := postForm(t, srv, form)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "[failed]", body)
}

func TestNotify_BadSignature(t *testing.T) {
	srv := newServer(t, nil)

	form := url.Values{}
	form.Set("p24_session_id", "12345-160302-154316")
	form.Set("p24_order_id", "987654")
	form.Set("p24_amount", "2500")
	form.Set("p24_currency", "PLN")
	form.Set("p24_sign", "deadbeefdeadbeefdeadbeefdeadbeef")

	status, body := postForm(t, srv, form)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "[failed]", body)
}
