package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/retry"
)

func newManual(h *harness) *CreateManualAppointment {
	uc := NewCreateManualAppointment(h.repo, h.sched, h.hub, h.audit, h.log)
	uc.refetch = retry.Policy{MaxAttempts: 2, Initial: time.Millisecond, Max: time.Millisecond}
	return uc
}

func TestCreateManualAppointment(t *testing.T) {
	h := newHarness(t, dayBefore)

	view, err := newManual(h).Execute(context.Background(), barberSession, ManualBookingInput{
		ClientName:  "Aziz Karimov",
		ClientPhone: "+998901234567",
		ServiceID:   haircutID,
		Date:        day,
		Time:        "11:00",
		Notes:       "walk-in",
	})
	require.NoError(t, err)

	require.NotNil(t, view.Client)
	assert.True(t, view.Client.Manual)
	assert.Equal(t, "Aziz Karimov", view.Client.Name)
	assert.Equal(t, "+998901234567", view.Client.Phone)
	assert.Equal(t, "walk-in", view.Notes)
	assert.Nil(t, view.Client.ID)

	apps, err := h.repo.ListAppointments(context.Background(), barberID, day)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Manual booking: Aziz Karimov, +998901234567\nwalk-in", apps[0].Notes)
	assert.Nil(t, apps[0].ClientID)
}

func TestCreateManualAppointment_Rejects(t *testing.T) {
	h := newHarness(t, dayBefore)
	valid := ManualBookingInput{ClientName: "Aziz", ClientPhone: "+998901234567", ServiceID: haircutID, Date: day, Time: "11:00"}

	_, err := newManual(h).Execute(context.Background(), clientSession, valid)
	assert.True(t, httperr.IsBusiness(err, domain.CodeForbidden))

	missingPhone := valid
	missingPhone.ClientPhone = " "
	_, err = newManual(h).Execute(context.Background(), barberSession, missingPhone)
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidClient))

	for _, bad := range []struct{ name, phone string }{
		{"Aziz\nKarimov", "+998901234567"},
		{"Aziz\rKarimov", "+998901234567"},
		{"Aziz", "+99890\n1234567"},
		{"Aziz", "+99890\r1234567"},
		{"Aziz", "+99890, 1234567"},
	} {
		in := valid
		in.ClientName, in.ClientPhone = bad.name, bad.phone
		_, err = newManual(h).Execute(context.Background(), barberSession, in)
		assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidClient), "%q %q", bad.name, bad.phone)
	}
	assert.Equal(t, 0, h.repo.insertCalls)

	unknownService := valid
	unknownService.ServiceID = 0
	_, err = newManual(h).Execute(context.Background(), barberSession, unknownService)
	assert.True(t, httperr.IsBusiness(err, domain.CodeServiceNotFound))

	h.repo.seed(booked(day, "10:45", 30, domain.StatusBooked))
	_, err = newManual(h).Execute(context.Background(), barberSession, valid)
	assert.ErrorIs(t, err, domain.ErrSlotTaken)
}
