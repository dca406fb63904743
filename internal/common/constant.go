package common

// SnapshotKey is the storage key under which the directory snapshot lives.
const SnapshotKey = "rerange-auth-storage"

// ReminderTitle is the notification title used for every task reminder.
const ReminderTitle = "RERANGE Reminder"
