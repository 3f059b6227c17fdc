package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserDisplayName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("", User{}.DisplayName())
	assert.Equal("Ahmed", User{FirstName: OptionalString("Ahmed")}.DisplayName())
	assert.Equal("Smith", User{LastName: OptionalString("Smith")}.DisplayName())
	assert.Equal("JohnSmith", User{FirstName: OptionalString("John"), LastName: OptionalString("Smith")}.DisplayName())
}

func TestUserLabel(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("John Smith", User{ID: 1, FirstName: OptionalString("John"), LastName: OptionalString("Smith")}.Label())
	assert.Equal("John", User{ID: 1, FirstName: OptionalString("John")}.Label())
	assert.Equal("@john", User{ID: 1, UserName: "john"}.Label())
	assert.Equal("1", User{ID: 1}.Label())
}

func TestOptionalString(t *testing.T) {
	assert.Nil(t, OptionalString(""))
	assert.Equal(t, "x", *OptionalString("x"))
}

func TestChatMemberIsAdmin(t *testing.T) {
	assert := assert.New(t)

	assert.True(ChatMember{Status: MemberStatusCreator}.IsAdmin())
	assert.True(ChatMember{Status: MemberStatusAdministrator}.IsAdmin())
	assert.False(ChatMember{Status: MemberStatusMember}.IsAdmin())
	assert.False(ChatMember{Status: MemberStatusRestricted}.IsAdmin())
	assert.False(ChatMember{}.IsAdmin())
}

func TestCapabilitiesAllows(t *testing.T) {
	assert := assert.New(t)

	restrict := Capabilities{CanRestrictMembers: true}
	strict := Capabilities{CanRestrictMembers: true, CanDeleteMessages: true}

	assert.True(Capabilities{}.Allows(Capabilities{}))
	assert.False(Capabilities{}.Allows(restrict))
	assert.True(restrict.Allows(restrict))
	assert.False(restrict.Allows(strict))
	assert.True(strict.Allows(restrict))
	assert.False(Capabilities{CanDeleteMessages: true}.Allows(strict))
}

func TestSetting(t *testing.T) {
	assert := assert.New(t)

	assert.True(SettingUnset.Enabled())
	assert.True(SettingOn.Enabled())
	assert.False(SettingOff.Enabled())

	assert.Equal("unset", SettingUnset.String())
	assert.Equal("on", SettingOn.String())
	assert.Equal("off", SettingOff.String())
}
