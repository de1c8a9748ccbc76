package platform_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ainnie/internal/platform"
	"github.com/keshon/ainnie/internal/platform/platformtest"
)

func restErr(code int) error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: code}}
}

func TestClassification(t *testing.T) {
	assert.True(t, platform.IsForbidden(restErr(http.StatusForbidden)))
	assert.True(t, platform.IsForbidden(fmt.Errorf("send: %w", restErr(http.StatusForbidden))))
	assert.True(t, platform.IsNotFound(restErr(http.StatusNotFound)))
	assert.True(t, platform.IsNotFound(platform.ErrNotFound))
	assert.False(t, platform.IsForbidden(restErr(http.StatusInternalServerError)))
	assert.False(t, platform.IsNotFound(errors.New("boom")))
}

func TestSafeSendSwallowsForbidden(t *testing.T) {
	f := platformtest.New("bot")
	f.SendErr = restErr(http.StatusForbidden)

	msg, err := platform.SafeSend(f, "c1", "hello")
	assert.NoError(t, err)
	assert.Nil(t, msg)
}

func TestSafeSendPropagatesOtherErrors(t *testing.T) {
	f := platformtest.New("bot")
	f.SendErr = restErr(http.StatusBadGateway)

	_, err := platform.SafeSend(f, "c1", "hello")
	assert.Error(t, err)
}

func TestSafeSendTruncates(t *testing.T) {
	f := platformtest.New("bot")

	msg, err := platform.SafeSend(f, "c1", strings.Repeat("x", 2500))
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Len(t, f.Sent[0].Content, platform.MessageLimit)
	assert.True(t, strings.HasSuffix(f.Sent[0].Content, "..."))
}

func TestSafeDeleteSwallowsNotFound(t *testing.T) {
	f := platformtest.New("bot")
	f.DeleteErr = restErr(http.StatusNotFound)
	assert.NoError(t, platform.SafeDelete(f, "c1", "m1"))

	f.DeleteErr = errors.New("boom")
	assert.Error(t, platform.SafeDelete(f, "c1", "m1"))
}

func TestHasPermission(t *testing.T) {
	assert.True(t, platform.HasPermission(discordgo.PermissionManageMessages, discordgo.PermissionManageMessages))
	assert.True(t, platform.HasPermission(discordgo.PermissionAdministrator, discordgo.PermissionManageMessages))
	assert.False(t, platform.HasPermission(discordgo.PermissionSendMessages, discordgo.PermissionManageMessages))
}
