package topology

// AnimalPose returns the 20-keypoint quadruped layout of the AnimalPose
// dataset.
func AnimalPose() Topology {
	return Topology{
		Name: "animal",
		Keypoints: []string{
			"nose",
			"left_eye",
			"right_eye",
			"left_ear",
			"right_ear",
			"throat",
			"tail",
			"withers",
			"left_front_elbow",
			"right_front_elbow",
			"left_back_elbow",
			"right_back_elbow",
			"left_front_knee",
			"right_front_knee",
			"left_back_knee",
			"right_back_knee",
			"left_front_paw",
			"right_front_paw",
			"left_back_paw",
			"right_back_paw",
		},
		Skeleton: []Edge{
			{1, 2}, {1, 3}, {2, 3}, {2, 4}, {3, 5}, {4, 6}, {5, 6}, {6, 8},
			{7, 8}, {6, 9}, {9, 13}, {13, 17}, {6, 10}, {10, 14}, {14, 18},
			{7, 11}, {11, 15}, {15, 19}, {7, 12}, {12, 16}, {16, 20},
		},
		Sigmas: []float64{
			0.026, // nose
			0.025, // eyes
			0.025,
			0.035, // ears
			0.035,
			0.079, // throat
			0.079, // tail
			0.079, // withers
			0.072, // elbows
			0.072,
			0.072,
			0.072,
			0.062, // knees
			0.062,
			0.062,
			0.062,
			0.089, // paws
			0.089,
			0.089,
			0.089,
		},
	}
}
